package utils

import (
	"github.com/gin-gonic/gin"
)

// FlashCookie carries a one-shot user-visible notice across a redirect, as
// "level|message". The frontend reads and clears it, so it is deliberately
// not HttpOnly.
const FlashCookie = "flash"

// SetFlash queues a notice for the next page the client lands on. Levels
// follow the usual bootstrap-ish vocabulary: success, info, warning, danger.
// gin query-escapes the cookie value; the value passed here must be the
// plain string so a single unescape on the client yields level|message.
func SetFlash(c *gin.Context, level, message string) {
	c.SetCookie(FlashCookie, level+"|"+message, 60, "/", "", false, false)
}
