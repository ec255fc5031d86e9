package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageProviderGoogleDrive = "googledrive"
	StorageProviderOneDrive    = "onedrive"

	// Firebase ID tokens are signed by the securetoken service account.
	defaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type Config struct {
	Port          string
	GinMode       string
	DBUrl         string
	RunMigrations bool
	LogLevel      string
	// Authentication (Firebase ID tokens)
	FirebaseProjectID string
	AuthJWKSURL       string
	AuthJWTSecret     string // HS256, local development only
	// CORS
	AllowedOrigins []string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Upload Configuration
	UploadRateLimitPerMinute int
	MaxUploadSize            int64
	AllowedMIMETypes         []string
	UploadTempDir            string
	// Storage provider selection
	StorageProvider string
	StorageTimeout  time.Duration
	GoogleDrive     GoogleDriveConfig
	OneDrive        OneDriveConfig
}

type GoogleDriveConfig struct {
	ClientEmail string
	PrivateKey  string
	FolderID    string
}

type OneDriveConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveID      string
	FolderID     string
	GraphBaseURL string
	AuthorityURL string
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment wins in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		// Auth
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", defaultJWKSURL),
		AuthJWTSecret:     getEnv("AUTH_JWT_SECRET", ""),
		AllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Uploads
		UploadRateLimitPerMinute: getEnvInt("UPLOAD_RATE_LIMIT_PER_MINUTE", 10),
		MaxUploadSize:            int64(getEnvInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)), // 10MB
		AllowedMIMETypes:         getEnvList("UPLOAD_ALLOWED_MIME_TYPES", []string{"application/pdf"}),
		UploadTempDir:            getEnv("UPLOAD_TEMP_DIR", "./temp"),
		// Storage
		StorageProvider: strings.ToLower(getEnv("STORAGE_PROVIDER", StorageProviderOneDrive)),
		StorageTimeout:  time.Duration(getEnvInt("STORAGE_TIMEOUT_SECONDS", 60)) * time.Second,
		GoogleDrive: GoogleDriveConfig{
			ClientEmail: getEnv("GOOGLE_CLIENT_EMAIL", ""),
			// Keys pasted into env files carry literal \n sequences
			PrivateKey: strings.ReplaceAll(getEnv("GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
			FolderID:   getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
		},
		OneDrive: OneDriveConfig{
			TenantID:     getEnv("ONEDRIVE_TENANT_ID", ""),
			ClientID:     getEnv("ONEDRIVE_CLIENT_ID", ""),
			ClientSecret: getEnv("ONEDRIVE_CLIENT_SECRET", ""),
			DriveID:      getEnv("ONEDRIVE_DRIVE_ID", ""),
			FolderID:     getEnv("ONEDRIVE_FOLDER_ID", ""),
			GraphBaseURL: strings.TrimRight(getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"), "/"),
			AuthorityURL: strings.TrimRight(getEnv("ONEDRIVE_AUTHORITY_URL", "https://login.microsoftonline.com"), "/"),
		},
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Upload rate limiting will use in-memory fallback.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.MaxUploadSize <= 0 {
		return errors.New("UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if len(c.AllowedMIMETypes) == 0 {
		return errors.New("UPLOAD_ALLOWED_MIME_TYPES must not be empty")
	}

	switch c.StorageProvider {
	case StorageProviderGoogleDrive:
		g := c.GoogleDrive
		if g.ClientEmail == "" || g.PrivateKey == "" || g.FolderID == "" {
			return errors.New("google drive storage requires GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY and GOOGLE_DRIVE_FOLDER_ID")
		}
	case StorageProviderOneDrive:
		o := c.OneDrive
		if o.TenantID == "" || o.ClientID == "" || o.ClientSecret == "" || o.DriveID == "" || o.FolderID == "" {
			return errors.New("onedrive storage requires ONEDRIVE_TENANT_ID, ONEDRIVE_CLIENT_ID, ONEDRIVE_CLIENT_SECRET, ONEDRIVE_DRIVE_ID and ONEDRIVE_FOLDER_ID")
		}
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
