package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cityfix-be/store"
)

// UploadController relays stored blobs back to the client. Retrieval is
// deliberately unauthenticated: the public reports page embeds these images
// for anonymous visitors.
type UploadController struct {
	blobs store.BlobStore
}

func NewUploadController(blobs store.BlobStore) *UploadController {
	return &UploadController{blobs: blobs}
}

// Serve streams a stored file with its recorded content type. Unknown or
// malformed ids are a plain 404.
func (u *UploadController) Serve(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blob, err := u.blobs.Open(ctx, c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Filename))
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
