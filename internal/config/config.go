package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed by reference; nothing re-reads env vars
// per request.
type Config struct {
	Port string
	Env  string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string
	TokenTTL  time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleAuthURL      string
	GoogleTokenURL     string
	GoogleUserInfoURL  string
	FrontendOrigin     string

	NATSUrl string

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	OTLPEndpoint string
}

func Load() *Config {
	ttl := 7 * 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}

	return &Config{
		Port: getEnv("APP_PORT", "5000"),
		Env:  getEnv("APP_ENV", "development"),

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "blog"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  ttl,

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5000/api/auth/google"),
		GoogleAuthURL:      getEnv("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/auth"),
		GoogleTokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		GoogleUserInfoURL:  getEnv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
		FrontendOrigin:     getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		NATSUrl: getEnv("NATS_URL", "nats://localhost:4222"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       os.Getenv("AWS_REGION"),
		S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		S3AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
	}
}

// DatabaseURL builds the postgres connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
