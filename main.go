package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"cityfix-be/config"
	"cityfix-be/controllers"
	"cityfix-be/mailer"
	"cityfix-be/models"
	"cityfix-be/routes"
	"cityfix-be/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := config.ConnectDB(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("MongoDB connection established successfully!")

	if err := models.EnsureUserIndexes(db.Collection("users")); err != nil {
		log.Printf("Failed to ensure user indexes: %v", err)
	}

	// Redis only backs the submission rate limiter; the service runs fine
	// without it.
	var rdb *redis.Client
	if cfg.RedisAddress != "" {
		rdb, err = config.ConnectRedis(cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
	}

	users := store.NewUserStore(db)
	issues := store.NewIssueStore(db)
	dones := store.NewDoneReportStore(db)
	rejects := store.NewRejectionStore(db)
	blobs, err := store.NewBlobStore(db)
	if err != nil {
		log.Fatalf("Failed to open GridFS bucket: %v", err)
	}

	mail := mailer.NewSMTP(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUsername,
		cfg.SMTPPassword, cfg.MailSender, cfg.MailSenderName)

	authController := controllers.NewAuthController(users, issues)
	reportController := controllers.NewReportController(issues, users, blobs, mail, cfg.BaseURL)
	maintenanceController := controllers.NewMaintenanceController(issues, users, dones, rejects, blobs)
	reviewController := controllers.NewReviewController(dones, issues, rejects, users, mail, cfg.BaseURL)
	userController := controllers.NewUserController(users)
	uploadController := controllers.NewUploadController(blobs)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r, authController)
	routes.ReportRoutes(r, reportController, reviewController, uploadController, rdb, cfg.ReportLimit)
	routes.AdminRoutes(r, reportController, reviewController, userController, users)
	routes.MaintenanceRoutes(r, maintenanceController, users)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
