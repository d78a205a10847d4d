package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Email   EmailConfig
	Sheets  SheetsConfig
	Drive   DriveConfig
	Media   MediaConfig
	History HistoryConfig
	Sync    SyncConfig
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	NotifyTo     string
}

type SheetsConfig struct {
	APIKey        string
	SpreadsheetID string
	Range         string
}

type DriveConfig struct {
	APIKey string
}

// MediaConfig configures the S3-compatible bucket that stores vehicle photos.
type MediaConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type HistoryConfig struct {
	CarfaxBaseURL    string
	CarfaxAPIKey     string
	AutocheckBaseURL string
	AutocheckAPIKey  string
}

type SyncConfig struct {
	CronSpec         string
	Timezone         string
	ImageWidth       int
	BannerNewMaxDays int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "lotkeeper"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "lotkeeper"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Email: EmailConfig{
			Enabled:      getenvBool("SMTP_ENABLED", false),
			SMTPHost:     getenv("SMTP_HOST", "localhost"),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@lotkeeper.local"),
			NotifyTo:     getenv("SMTP_NOTIFY_TO", ""),
		},
		Sheets: SheetsConfig{
			APIKey:        strings.TrimSpace(getenv("SHEETS_API_KEY", "")),
			SpreadsheetID: strings.TrimSpace(getenv("SHEETS_SPREADSHEET_ID", "")),
			Range:         getenv("SHEETS_RANGE", "Inventory!A2:T"),
		},
		Drive: DriveConfig{
			APIKey: strings.TrimSpace(getenv("DRIVE_API_KEY", "")),
		},
		Media: MediaConfig{
			Bucket:          getenv("MEDIA_BUCKET", ""),
			Region:          getenv("MEDIA_REGION", "us-east-1"),
			Endpoint:        getenv("MEDIA_ENDPOINT", ""),
			AccessKeyID:     getenv("MEDIA_ACCESS_KEY_ID", ""),
			SecretAccessKey: getenv("MEDIA_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimRight(getenv("MEDIA_PUBLIC_BASE_URL", ""), "/"),
		},
		History: HistoryConfig{
			CarfaxBaseURL:    getenv("CARFAX_BASE_URL", "https://api.carfax.com/v2"),
			CarfaxAPIKey:     strings.TrimSpace(getenv("CARFAX_API_KEY", "")),
			AutocheckBaseURL: getenv("AUTOCHECK_BASE_URL", "https://api.autocheck.com/v1"),
			AutocheckAPIKey:  strings.TrimSpace(getenv("AUTOCHECK_API_KEY", "")),
		},
		Sync: SyncConfig{
			CronSpec:         getenv("SYNC_CRON", "0 6 * * *"),
			Timezone:         getenv("SYNC_TIMEZONE", "America/Chicago"),
			ImageWidth:       getenvInt("SYNC_IMAGE_WIDTH", 800),
			BannerNewMaxDays: getenvInt("BANNER_NEW_MAX_DAYS", 5),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
