package store

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityfix-be/apperr"
)

// GridFSBlobStore stores uploaded images in a GridFS bucket. Blob lifetime
// is decoupled from the documents that reference them: deleting an issue
// leaves its images behind.
type GridFSBlobStore struct {
	bucket *gridfs.Bucket
}

type blobMetadata struct {
	ContentType string `bson:"contentType"`
}

func NewBlobStore(db *mongo.Database) (*GridFSBlobStore, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, err
	}
	return &GridFSBlobStore{bucket: bucket}, nil
}

func (s *GridFSBlobStore) Put(ctx context.Context, filename, contentType string, src io.Reader) (primitive.ObjectID, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return primitive.NilObjectID, err
		}
	}

	uploadOptions := options.GridFSUpload().
		SetMetadata(bson.M{"contentType": contentType})

	return s.bucket.UploadFromStream(filename, src, uploadOptions)
}

func (s *GridFSBlobStore) Open(ctx context.Context, id string) (*Blob, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "file not found", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}

	blob := &Blob{
		Filename:    stream.GetFile().Name,
		ContentType: "application/octet-stream",
		Data:        data,
	}
	if raw := stream.GetFile().Metadata; raw != nil {
		var meta blobMetadata
		if err := bson.Unmarshal(raw, &meta); err == nil && meta.ContentType != "" {
			blob.ContentType = meta.ContentType
		}
	}
	return blob, nil
}
