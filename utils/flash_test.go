package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlashDecodesWithSingleUnescape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SetFlash(c, "warning", "Report rejected and sent back.")

	var cookie *http.Cookie
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == FlashCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	// The frontend unescapes the cookie value exactly once and splits on
	// the pipe; a double-escaped value would leave %7C behind.
	decoded, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "warning|Report rejected and sent back.", decoded)

	parts := strings.SplitN(decoded, "|", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "warning", parts[0])
	assert.Equal(t, "Report rejected and sent back.", parts[1])

	assert.Equal(t, 60, cookie.MaxAge)
	assert.False(t, cookie.HttpOnly)
}
