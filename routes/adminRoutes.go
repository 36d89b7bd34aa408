package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
	"cityfix-be/models"
	"cityfix-be/store"
)

// AdminRoutes sets up the triage, review and user-management routes. Every
// route re-checks the admin role against the identity store.
func AdminRoutes(r *gin.Engine, rc *controllers.ReportController, vc *controllers.ReviewController, uc *controllers.UserController, users store.UserStore) {
	requireLogin := middlewares.RequireLogin()
	requireAdmin := middlewares.RequireRole(users, models.RoleAdmin)

	admin := r.Group("/admin", requireLogin, requireAdmin)
	{
		admin.GET("/issues", rc.AdminDashboard)
		admin.GET("/done_reports", vc.DoneReports)
		admin.POST("/review_done_report/:dr_id", vc.Review)
		admin.GET("/users", uc.List)
		admin.POST("/users", uc.Update)
		admin.POST("/users/delete/:user_id", uc.Delete)
		admin.GET("/test-email", rc.TestEmail)
	}

	r.POST("/reports/assign/:issue_id", requireLogin, requireAdmin, rc.Assign)
}
