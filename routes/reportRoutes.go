package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// ReportRoutes sets up citizen-facing report routes, the public JSON API
// and the blob relay.
func ReportRoutes(r *gin.Engine, rc *controllers.ReportController, vc *controllers.ReviewController, uc *controllers.UploadController, rdb *redis.Client, reportLimit int) {
	r.POST("/report_issue",
		middlewares.RequireLogin(),
		middlewares.ReportRateLimiter(rdb, reportLimit),
		rc.Submit)
	r.GET("/my_reports", middlewares.RequireLogin(), rc.MyReports)
	r.POST("/delete_issue/:issue_id", middlewares.RequireLogin(), rc.Delete)

	r.GET("/report/:issue_id", rc.Detail)
	r.GET("/reports", rc.PublicList)

	r.GET("/uploads/:file_id", uc.Serve)
	r.GET("/done_uploads/:file_id", uc.Serve)

	api := r.Group("/api")
	{
		api.GET("/issues", rc.ListJSON)
		api.GET("/issues/:issue_id", rc.GetJSON)
		api.GET("/users/:email/issues", rc.UserIssuesJSON)
		api.GET("/done_reports", vc.DoneReportsJSON)
	}
}
