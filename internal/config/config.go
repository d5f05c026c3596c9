package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	FrontURL    string
	DB          DatabaseConfig
	Minio       MinioConfig
	Upload      UploadConfig
	RateLimiter RateLimiterConfig
	Mail        MailConfig
	Auth        AuthConfig
	Log         LogConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Burst                int
	Enabled              bool
}

type AuthConfig struct {
	JWT_SECRET        string
	TokenTTL          time.Duration
	CookieName        string
	GoogleOAuthConfig GoogleOAuthConfig
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type DatabaseConfig struct {
	DB_HOST      string
	DB_PORT      string
	DB_DATABASE  string
	DB_USERNAME  string
	DB_PASSWORD  string
	DB_SSLMODE   string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	USE_SSL    bool
	BUCKET     string
	// PUBLIC_URL is the base used to build retrievable blob URLs.
	// Falls back to the endpoint when empty.
	PUBLIC_URL string
	// DRIVER selects the object store: "minio" or "memory".
	DRIVER string
	// FOLDER is the destination folder for project files.
	FOLDER string
}

// UploadConfig holds the ingestion rules. A size of 0 means unlimited.
type UploadConfig struct {
	GeneralAllowedTypes    []string
	ThumbnailAllowedTypes  []string
	ThumbnailExtensions    []string
	DocumentExtensions     []string
	DocumentAllowedTypes   []string
	MaxGeneralFileSize     int64
	MaxThumbnailFileSize   int64
	MaxDocumentFileSize    int64
	MaxFilesPerProject     int
	UploadTimeout          time.Duration
	CheckDocumentIntegrity bool
}

type MailConfig struct {
	// DRIVER is "sendgrid", "smtp" or empty to disable outgoing mail.
	DRIVER     string
	SEND_GRID  SendGridConfig
	SMTP       SMTPConfig
	FROM_EMAIL string
}

type SMTPConfig struct {
	HOST     string
	PORT     int
	USERNAME string
	PASSWORD string
}

type SendGridConfig struct {
	API_KEY string
}

type LogConfig struct {
	// FilePath enables rotating file output in production when set.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	MB = int64(1 << 20)
)

var (
	DefaultGeneralAllowedTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"application/pdf",
		"application/zip",
		"text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	DefaultThumbnailAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	DefaultThumbnailExtensions   = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	DefaultDocumentExtensions    = []string{".pdf", ".doc", ".docx"}
	DefaultDocumentAllowedTypes  = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

// DefaultUploadConfig mirrors the limits the portal shipped with:
// 10MB general files, 5MB thumbnails, unlimited single documents.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		GeneralAllowedTypes:    DefaultGeneralAllowedTypes,
		ThumbnailAllowedTypes:  DefaultThumbnailAllowedTypes,
		ThumbnailExtensions:    DefaultThumbnailExtensions,
		DocumentExtensions:     DefaultDocumentExtensions,
		DocumentAllowedTypes:   DefaultDocumentAllowedTypes,
		MaxGeneralFileSize:     10 * MB,
		MaxThumbnailFileSize:   5 * MB,
		MaxDocumentFileSize:    0,
		MaxFilesPerProject:     20,
		UploadTimeout:          60 * time.Second,
		CheckDocumentIntegrity: false,
	}
}

func GetConfig() Config {
	rateLimiteTimeFrame, err := time.ParseDuration(env.GetString("RATE_LIMIT_TIME_FRAME", "1m"))
	if err != nil {
		rateLimiteTimeFrame = 60 * time.Second
	}

	upload := DefaultUploadConfig()

	return Config{
		Port:     env.GetString("PORT", "8080"),
		ENV:      env.GetString("ENV", "development"),
		FrontURL: env.GetString("FRONT_URL", "http://localhost:3000"),
		DB: DatabaseConfig{
			DB_HOST:      env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:      env.GetString("DB_PORT", "5432"),
			DB_USERNAME:  env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:  env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:  env.GetString("DB_DATABASE", "projecthub"),
			DB_SSLMODE:   env.GetString("DB_SSLMODE", "disable"),
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", "127.0.0.1:9000"),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
			BUCKET:     env.GetString("MINIO_BUCKET", "projecthub"),
			PUBLIC_URL: env.GetString("MINIO_PUBLIC_URL", ""),
			FOLDER:     env.GetString("MINIO_FOLDER", "projects"),
			DRIVER:     env.GetString("STORAGE_DRIVER", "minio"),
		},
		Upload: UploadConfig{
			GeneralAllowedTypes:    env.GetStringSlice("UPLOAD_GENERAL_ALLOWED_TYPES", upload.GeneralAllowedTypes),
			ThumbnailAllowedTypes:  env.GetStringSlice("UPLOAD_THUMBNAIL_ALLOWED_TYPES", upload.ThumbnailAllowedTypes),
			ThumbnailExtensions:    env.GetStringSlice("UPLOAD_THUMBNAIL_EXTENSIONS", upload.ThumbnailExtensions),
			DocumentExtensions:     env.GetStringSlice("UPLOAD_DOCUMENT_EXTENSIONS", upload.DocumentExtensions),
			DocumentAllowedTypes:   env.GetStringSlice("UPLOAD_DOCUMENT_ALLOWED_TYPES", upload.DocumentAllowedTypes),
			MaxGeneralFileSize:     env.GetInt64("UPLOAD_MAX_GENERAL_FILE_SIZE", upload.MaxGeneralFileSize),
			MaxThumbnailFileSize:   env.GetInt64("UPLOAD_MAX_THUMBNAIL_FILE_SIZE", upload.MaxThumbnailFileSize),
			MaxDocumentFileSize:    env.GetInt64("UPLOAD_MAX_DOCUMENT_FILE_SIZE", upload.MaxDocumentFileSize),
			MaxFilesPerProject:     env.GetInt("UPLOAD_MAX_FILES_PER_PROJECT", upload.MaxFilesPerProject),
			UploadTimeout:          env.GetDuration("UPLOAD_TIMEOUT", upload.UploadTimeout),
			CheckDocumentIntegrity: env.GetBool("UPLOAD_CHECK_DOCUMENT_INTEGRITY", upload.CheckDocumentIntegrity),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            rateLimiteTimeFrame,
			Burst:                env.GetInt("RATE_LIMIT_BURST", 100),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Mail: MailConfig{
			DRIVER:     env.GetString("MAIL_DRIVER", ""),
			FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			SEND_GRID: SendGridConfig{
				API_KEY: env.GetString("MAIL_SEND_GRID_API_KEY", ""),
			},
			SMTP: SMTPConfig{
				HOST:     env.GetString("MAIL_SMTP_HOST", "smtp.gmail.com"),
				PORT:     env.GetInt("MAIL_SMTP_PORT", 587),
				USERNAME: env.GetString("MAIL_SMTP_USERNAME", ""),
				PASSWORD: env.GetString("MAIL_SMTP_PASSWORD", ""),
			},
		},
		Auth: AuthConfig{
			JWT_SECRET: env.GetString("AUTH_JWT_SECRET", ""),
			TokenTTL:   env.GetDuration("AUTH_TOKEN_TTL", 24*time.Hour),
			CookieName: env.GetString("AUTH_COOKIE_NAME", "auth_token"),
			GoogleOAuthConfig: GoogleOAuthConfig{
				ClientID:     env.GetString("GOOGLE_OAUTH_CLIENT_ID", ""),
				ClientSecret: env.GetString("GOOGLE_OAUTH_CLIENT_SECRET", ""),
				RedirectURL:  env.GetString("GOOGLE_OAUTH_CALLBACK", "http://localhost:8080/api/v1/oauth/google/callback"),
			},
		},
		Log: LogConfig{
			FilePath:   env.GetString("LOG_FILE", ""),
			MaxSizeMB:  env.GetInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: env.GetInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: env.GetInt("LOG_MAX_AGE_DAYS", 30),
		},
	}
}
