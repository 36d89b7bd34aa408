package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"cityfix-be/middlewares"
	"cityfix-be/utils"
)

// redirectBack sends the client back where it came from, mirroring the
// behaviour of form posts embedded in several pages.
func redirectBack(c *gin.Context, fallback string) {
	target := c.Request.Referer()
	if target == "" {
		target = fallback
	}
	c.Redirect(http.StatusFound, target)
}

func currentEmail(c *gin.Context) string {
	return middlewares.CurrentUserEmail(c)
}

// setSessionCookie installs the signed session token. For production,
// don't set domain to allow cross-origin cookies.
func setSessionCookie(c *gin.Context, token string) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     utils.SessionCookie,
		Value:    token,
		MaxAge:   3600 * 72,
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)
}

func clearSessionCookie(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")
	c.SetCookie(utils.SessionCookie, "", -1, "/", domain, environment == "production", true)
}
