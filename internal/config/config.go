package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PhotoBackendLocal    = "local"
	PhotoBackendFirebase = "firebase"
	PhotoBackendNone     = "none"
)

// Config is resolved once at startup and passed to constructors.
type Config struct {
	Environment   string
	LogLevel      string
	ServerAddress string

	MongoURI string
	MongoDB  string

	CORSOrigins   []string
	DefaultLocale string

	PhotoBackend            string
	UploadDir               string
	PublicBaseURL           string
	MaxPhotoSizeMB          int64
	FirebaseBucket          string
	FirebaseCredentialsJSON string
	PhotoModeration         bool

	AdminJWTSecret    string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	RateLimitWindow   time.Duration
	RateLimitMax      int
	SubmitLimitWindow time.Duration
	SubmitLimitMax    int

	// TrustedProxyHops is how many reverse proxies sit in front of the
	// server. Zero ignores X-Forwarded-For.
	TrustedProxyHops int

	SendGridAPIKey  string
	NotifyFromEmail string
	NotifyToEmail   string
}

// Load reads .env (outside production), then the environment, and validates
// the result.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")

	if env != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: .env file couldn't be loaded: %v", err)
		}
	}

	port := getEnv("PORT", "3001")
	p := &envParser{}

	cfg := &Config{
		Environment:   env,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ServerAddress: getEnv("SERVER_ADDRESS", ":"+port),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getEnv("MONGODB_DB", "wedding_match"),

		CORSOrigins:   corsOrigins(getEnv("FRONTEND_URL", "http://localhost:3000"), os.Getenv("CORS_ORIGINS")),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "he"),

		PhotoBackend:            strings.ToLower(getEnv("PHOTO_BACKEND", PhotoBackendLocal)),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:           getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		MaxPhotoSizeMB:          int64(p.intVar("MAX_PHOTO_SIZE_MB", 5)),
		FirebaseBucket:          os.Getenv("FIREBASE_STORAGE_BUCKET"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		PhotoModeration:         p.boolVar("PHOTO_MODERATION", false),

		AdminJWTSecret:    os.Getenv("ADMIN_JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTokenTTL:     p.durationVar("ADMIN_TOKEN_TTL", 12*time.Hour),

		RateLimitWindow:   p.durationVar("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:      p.intVar("RATE_LIMIT_MAX", 100),
		SubmitLimitWindow: p.durationVar("SUBMIT_LIMIT_WINDOW", time.Minute),
		SubmitLimitMax:    p.intVar("SUBMIT_LIMIT_MAX", 3),
		TrustedProxyHops:  p.intVar("TRUSTED_PROXY_HOPS", 0),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyFromEmail: os.Getenv("NOTIFY_FROM_EMAIL"),
		NotifyToEmail:   os.Getenv("NOTIFY_TO_EMAIL"),
	}
	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("config: MONGODB_URI is required")
	}
	parsed, err := url.Parse(c.MongoURI)
	if err != nil {
		return fmt.Errorf("config: invalid MONGODB_URI: %w", err)
	}
	if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
		return fmt.Errorf("config: MONGODB_URI must use the mongodb or mongodb+srv scheme")
	}

	switch c.PhotoBackend {
	case PhotoBackendLocal, PhotoBackendNone:
	case PhotoBackendFirebase:
		if c.FirebaseBucket == "" {
			return fmt.Errorf("config: FIREBASE_STORAGE_BUCKET is required when PHOTO_BACKEND=firebase")
		}
	default:
		return fmt.Errorf("config: PHOTO_BACKEND must be local, firebase or none (got %q)", c.PhotoBackend)
	}
	if c.MaxPhotoSizeMB <= 0 {
		return fmt.Errorf("config: MAX_PHOTO_SIZE_MB must be positive")
	}

	if c.AdminJWTSecret != "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("config: ADMIN_PASSWORD_HASH is required when ADMIN_JWT_SECRET is set")
	}
	if c.RateLimitMax < 0 || c.SubmitLimitMax < 0 {
		return fmt.Errorf("config: rate limit maximums cannot be negative")
	}
	if c.TrustedProxyHops < 0 {
		return fmt.Errorf("config: TRUSTED_PROXY_HOPS cannot be negative")
	}
	if c.SendGridAPIKey != "" && (c.NotifyFromEmail == "" || c.NotifyToEmail == "") {
		return fmt.Errorf("config: NOTIFY_FROM_EMAIL and NOTIFY_TO_EMAIL are required when SENDGRID_API_KEY is set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) MaxPhotoBytes() int64 {
	return c.MaxPhotoSizeMB << 20
}

// AdminEnabled reports whether the admin routes are guarded.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != ""
}

func (c *Config) NotifyEnabled() bool {
	return c.SendGridAPIKey != ""
}

func corsOrigins(frontendURL, extra string) []string {
	seen := map[string]bool{}
	var out []string
	for _, o := range append([]string{frontendURL}, strings.Split(extra, ",")...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// envParser keeps the first parse failure so Load can report it once.
type envParser struct {
	err error
}

func (p *envParser) intVar(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *envParser) boolVar(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

func (p *envParser) durationVar(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config: invalid %s: %w", key, err)
	}
}
