package config

import (
	"os"
	"time"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	ResetTokenTTL  time.Duration
	CORSOrigin     string
	FrontendURL    string
	SendGridAPIKey string
	FromEmail      string
}

func Load() Config {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      envString("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:       24 * time.Hour,
		ResetTokenTTL:  15 * time.Minute,
		CORSOrigin:     envString("CORS_ORIGIN", "*"),
		FrontendURL:    envString("FRONTEND_BASE_URL", "http://localhost:5173"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      envString("FROM_EMAIL", "no-reply@inklet.app"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
