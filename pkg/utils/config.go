package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	OTP       OTPConfig
	Lockout   LockoutConfig
	Media     MediaConfig
	MinIO     MinIOConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	TMDB      TMDBConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConns       int32
	MigrateOnStart bool
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	Audience    string
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type LockoutConfig struct {
	MaxFailedAttempts int
	DurationMinutes   int
}

type MediaConfig struct {
	Driver         string // local | minio
	Root           string
	ImagesFolder   string
	VideosFolder   string
	PublicPrefix   string
	MaxUploadMB    int64
	PosterWidth    int
	PosterHeight   int
	BackdropWidth  int
	BackdropHeight int
	AvatarSize     int
	WebPQuality    float32
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	PublicURL       string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type TMDBConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

const (
	MediaDriverLocal = "local"
	MediaDriverMinIO = "minio"
)

// LoadConfig reads the given .env file (when present) and overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "streaming-catalog")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("JWT_ISSUER", "streaming-catalog")
	v.SetDefault("JWT_AUDIENCE", "streaming-catalog-clients")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("LOCKOUT_MAX_FAILED_ATTEMPTS", 5)
	v.SetDefault("LOCKOUT_DURATION_MINUTES", 15)
	v.SetDefault("MEDIA_DRIVER", MediaDriverLocal)
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MEDIA_IMAGES_FOLDER", "images")
	v.SetDefault("MEDIA_VIDEOS_FOLDER", "videos")
	v.SetDefault("MEDIA_PUBLIC_PREFIX", "/media")
	v.SetDefault("MEDIA_MAX_UPLOAD_MB", 2048)
	v.SetDefault("MEDIA_POSTER_WIDTH", 500)
	v.SetDefault("MEDIA_POSTER_HEIGHT", 750)
	v.SetDefault("MEDIA_BACKDROP_WIDTH", 1920)
	v.SetDefault("MEDIA_BACKDROP_HEIGHT", 1080)
	v.SetDefault("MEDIA_AVATAR_SIZE", 256)
	v.SetDefault("MEDIA_WEBP_QUALITY", 80)
	v.SetDefault("MINIO_REGION", "us-east-1")
	v.SetDefault("MINIO_BUCKET", "media")
	v.SetDefault("MINIO_USE_SSL", true)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_TIMEOUT_SECONDS", 10)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			Name:           v.GetString("DB_NAME"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASS"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxConns:       v.GetInt32("DB_MAX_CONNS"),
			MigrateOnStart: v.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			Issuer:      v.GetString("JWT_ISSUER"),
			Audience:    v.GetString("JWT_AUDIENCE"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Lockout: LockoutConfig{
			MaxFailedAttempts: v.GetInt("LOCKOUT_MAX_FAILED_ATTEMPTS"),
			DurationMinutes:   v.GetInt("LOCKOUT_DURATION_MINUTES"),
		},
		Media: MediaConfig{
			Driver:         strings.ToLower(v.GetString("MEDIA_DRIVER")),
			Root:           v.GetString("MEDIA_ROOT"),
			ImagesFolder:   v.GetString("MEDIA_IMAGES_FOLDER"),
			VideosFolder:   v.GetString("MEDIA_VIDEOS_FOLDER"),
			PublicPrefix:   v.GetString("MEDIA_PUBLIC_PREFIX"),
			MaxUploadMB:    v.GetInt64("MEDIA_MAX_UPLOAD_MB"),
			PosterWidth:    v.GetInt("MEDIA_POSTER_WIDTH"),
			PosterHeight:   v.GetInt("MEDIA_POSTER_HEIGHT"),
			BackdropWidth:  v.GetInt("MEDIA_BACKDROP_WIDTH"),
			BackdropHeight: v.GetInt("MEDIA_BACKDROP_HEIGHT"),
			AvatarSize:     v.GetInt("MEDIA_AVATAR_SIZE"),
			WebPQuality:    float32(v.GetFloat64("MEDIA_WEBP_QUALITY")),
		},
		MinIO: MinIOConfig{
			Endpoint:        v.GetString("MINIO_ENDPOINT"),
			AccessKeyID:     v.GetString("MINIO_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("MINIO_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("MINIO_BUCKET"),
			Region:          v.GetString("MINIO_REGION"),
			UseSSL:          v.GetBool("MINIO_USE_SSL"),
			PublicURL:       v.GetString("MINIO_PUBLIC_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL: v.GetString("TMDB_BASE_URL"),
			Token:   v.GetString("TMDB_TOKEN"),
			Timeout: time.Duration(v.GetInt("TMDB_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	return config, nil
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}

	if c.Lockout.MaxFailedAttempts < 1 || c.Lockout.DurationMinutes < 1 {
		return fmt.Errorf("lockout attempts and duration must be positive")
	}

	switch c.Media.Driver {
	case MediaDriverLocal:
		if c.Media.Root == "" {
			return fmt.Errorf("MEDIA_ROOT is required for the local media driver")
		}
	case MediaDriverMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for the minio media driver")
		}
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("MinIO credentials are required for the minio media driver")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", c.Media.Driver)
	}

	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
