package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
	"cityfix-be/models"
	"cityfix-be/store"
)

// MaintenanceRoutes sets up the technician dashboard and completion routes.
func MaintenanceRoutes(r *gin.Engine, mc *controllers.MaintenanceController, users store.UserStore) {
	maint := r.Group("/maintenance",
		middlewares.RequireLogin(),
		middlewares.RequireRole(users, models.RoleMaintenance))
	{
		maint.GET("/dashboard", mc.Dashboard)
		maint.POST("/update_status/:issue_id", mc.UpdateStatus)
		maint.POST("/complete_issue/:issue_id", mc.Complete)
		maint.GET("/rejected_reports", mc.RejectedReports)
	}
}
