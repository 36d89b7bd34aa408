package config

import (
	"os"
	"strconv"
)

// Config gathers every environment setting the service reads.
type Config struct {
	Port       string
	BaseURL    string
	CORSOrigin string

	MongoURI string
	DBName   string

	SMTPServer     string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	MailSender     string
	MailSenderName string

	RedisAddress  string
	RedisPassword string
	ReportLimit   int
}

// Load reads the configuration from the environment. Callers are expected
// to have run godotenv.Load first.
func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "8080"),
		BaseURL:    getenv("BASE_URL", "http://localhost:8080"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:3000"),

		MongoURI: getenv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:   getenv("MONGODB_DB", "cityfix"),

		SMTPServer:     getenv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:       getenvInt("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailSender:     getenv("MAIL_DEFAULT_SENDER", "cityfix101@gmail.com"),
		MailSenderName: getenv("MAIL_DEFAULT_SENDER_NAME", "City Fix Team"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ReportLimit:   getenvInt("REPORT_DAILY_LIMIT", 20),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
