package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cityfix-be/models"
	"cityfix-be/store"
	"cityfix-be/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserEmail = "user_email"
	CtxUserRole  = "user_role"
)

// Authenticate validates the session token and rejects API requests with a
// 401 JSON body when it is missing or invalid.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, role, err := utils.ParseToken(utils.TokenFromRequest(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}
		c.Set(CtxUserEmail, email)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// RequireLogin is the form/page variant of Authenticate: an anonymous or
// expired session gets a flash notice and a redirect to the landing page,
// never a hard error.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, role, err := utils.ParseToken(utils.TokenFromRequest(c))
		if err != nil {
			utils.SetFlash(c, "warning", "Please log in first")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set(CtxUserEmail, email)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. The role is re-read from
// the identity store on every call rather than trusted from the token, so
// an admin demoting an account takes effect immediately instead of at the
// next login.
func RequireRole(users store.UserStore, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := CurrentUserEmail(c)
		if email == "" {
			utils.SetFlash(c, "warning", "Please log in first")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), email)
		if err != nil {
			utils.SetFlash(c, "danger", "Access denied.")
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set(CtxUserRole, string(user.Role))
				c.Next()
				return
			}
		}

		utils.SetFlash(c, "danger", "Access denied.")
		c.Redirect(http.StatusFound, "/dashboard")
		c.Abort()
	}
}

// CurrentUserEmail returns the authenticated email set by the middlewares,
// or "" when the request is anonymous.
func CurrentUserEmail(c *gin.Context) string {
	value, ok := c.Get(CtxUserEmail)
	if !ok {
		return ""
	}
	email, _ := value.(string)
	return email
}
