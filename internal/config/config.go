package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Server
	Port        string
	CORSOrigins string

	Moderation ModerationConfig
}

// ModerationConfig is injected into the moderation services at construction.
// Limits that used to live as scattered env lookups are enumerated here.
type ModerationConfig struct {
	MaxImagesPerReview      int
	MaxVideoDurationSeconds int
	MaxMediaPerReview       int
	ReportHideThreshold     int

	// TouchMarksHandled controls whether a partial report edit (for example
	// severity only) stamps handled_by/handled_at. The legacy system behaved
	// as if any edit counted as handling.
	TouchMarksHandled bool

	// AuditReviewActions controls whether review approve/reject/feature
	// actions write audit rows. Listings and reports always do.
	AuditReviewActions bool
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "rentroom_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		Moderation: ModerationConfig{
			MaxImagesPerReview:      getEnvInt("MAX_IMAGES_PER_REVIEW", 10),
			MaxVideoDurationSeconds: getEnvInt("MAX_VIDEO_DURATION_SECONDS", 120),
			MaxMediaPerReview:       getEnvInt("MAX_MEDIA_PER_REVIEW", 15),
			ReportHideThreshold:     getEnvInt("REPORT_HIDE_THRESHOLD", 5),
			TouchMarksHandled:       getEnvBool("REPORT_TOUCH_MARKS_HANDLED", true),
			AuditReviewActions:      getEnvBool("AUDIT_REVIEW_ACTIONS", true),
		},
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
