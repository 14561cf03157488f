package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string

	JWTSecret      string
	JWTExpiryHours int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MediaProvider      string
	MaxUploadMB        int
	S3Region           string
	S3Bucket           string
	S3AccessKey        string
	S3SecretKey        string
	S3Endpoint         string
	S3PublicBase       string
	GCSBucket          string
	GCSCredentialsFile string
	GCSPublicBase      string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	MinioPublicBase    string

	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	MailFrom         string
	NotifyAdminEmail string
	NotifyQueue      string

	OutboundTimeoutSec int

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string

	CORSOrigins        []string
	SubmitRateLimit    int
	AuthRateLimit      int
	RateLimitWindowSec int
}

var (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderS3     = "s3"
	ProviderGCS    = "gcs"
	ProviderMinio  = "minio"
	ProviderMemory = "memory"

	QueueInline = "inline"
	QueueAsynq  = "asynq"
)

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppMode: getEnv("APP_MODE", "debug"),

		DBDriver:      getEnv("DB_DRIVER", DriverMongo),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "socialdesk"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MediaProvider:      getEnv("MEDIA_PROVIDER", ProviderS3),
		MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 5),
		S3Region:           getEnv("S3_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3PublicBase:       getEnv("S3_PUBLIC_BASE", ""),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		GCSPublicBase:      getEnv("GCS_PUBLIC_BASE", ""),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:        getEnv("MINIO_BUCKET", ""),
		MinioUseSSL:        getEnvAsBool("MINIO_USE_SSL", false),
		MinioPublicBase:    getEnv("MINIO_PUBLIC_BASE", ""),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailFrom:         getEnv("MAIL_FROM", ""),
		NotifyAdminEmail: getEnv("NOTIFY_ADMIN_EMAIL", ""),
		NotifyQueue:      getEnv("NOTIFY_QUEUE", QueueInline),

		OutboundTimeoutSec: getEnvAsInt("OUTBOUND_TIMEOUT_SEC", 20),

		BootstrapAdminEmail:    getEnv("ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("ADMIN_PASSWORD", ""),
		BootstrapAdminName:     getEnv("ADMIN_NAME", "Admin"),

		CORSOrigins:        getEnvAsList("CORS_ORIGINS", []string{"*"}),
		SubmitRateLimit:    getEnvAsInt("SUBMIT_RATE_LIMIT", 10),
		AuthRateLimit:      getEnvAsInt("AUTH_RATE_LIMIT", 5),
		RateLimitWindowSec: getEnvAsInt("RATE_LIMIT_WINDOW_SEC", 60),
	}
}

// Validate reports every setting that is missing for the selected drivers.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiryHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}
	if c.BootstrapAdminEmail == "" || c.BootstrapAdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required"))
	}

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.MediaProvider {
	case ProviderS3:
		if c.S3Region == "" || c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_REGION and S3_BUCKET are required"))
		}
	case ProviderGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required"))
		}
	case ProviderMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_BUCKET and MinIO credentials are required"))
		}
	case ProviderMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_PROVIDER %q", c.MediaProvider))
	}

	switch c.NotifyQueue {
	case QueueInline:
	case QueueAsynq:
		if c.RedisHost == "" {
			errs = append(errs, errors.New("REDIS_HOST is required when NOTIFY_QUEUE=asynq"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_QUEUE %q", c.NotifyQueue))
	}

	if c.AppMode == "release" && (c.SMTPHost == "" || c.NotifyAdminEmail == "") {
		errs = append(errs, errors.New("SMTP_HOST and NOTIFY_ADMIN_EMAIL are required in release mode"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
