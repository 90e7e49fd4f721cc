package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	MongoURI            string
	MongoDB             string
	MongoForceTLSConfig bool
	MongoInsecureTLS    bool

	PostgresURI string
	RedisAddr   string

	JWTSecret    string
	JWTExpiresIn time.Duration

	CORSAllowedOrigins []string

	RateLimitWindow  time.Duration
	RateLimitMax     int
	AuthRateLimitMax int

	GCSBucket          string
	GCPCredentialsFile string
	GCPProjectID       string
	GCPLocation        string

	LLMProvider    string
	LLMModel       string
	GeminiAPIKey   string
	EmbeddingModel string

	GeocoderURL       string
	GeocoderUserAgent string

	UploadTmpDir  string
	VectorWorkers int
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDB:             getEnv("MONGO_DB", "jobportal"),
		MongoForceTLSConfig: getEnvAsBool("MONGO_FORCE_TLS_CONFIG", false),
		MongoInsecureTLS:    getEnvAsBool("MONGO_INSECURE_TLS", false),

		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisAddr:   firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvAsDuration("JWT_EXPIRES_IN", 90*24*time.Hour),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", ","),

		RateLimitWindow:  time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		RateLimitMax:     getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		AuthRateLimitMax: getEnvAsInt("AUTH_RATE_LIMIT_MAX_REQUESTS", 10),

		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCPCredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
		GCPProjectID:       getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:        getEnv("GCP_LOCATION", "us-central1"),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "vertex")),
		LLMModel:       getEnv("LLM_MODEL", "gemini-2.0-flash"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-005"),

		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "jobportal-backend/1.0"),

		UploadTmpDir:  getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		VectorWorkers: getEnvAsInt("VECTOR_WORKERS", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := getEnv(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("12h") and the day suffix used by
// JWT_EXPIRES_IN ("90d").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return defaultValue
	}
	if strings.HasSuffix(s, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getEnvAsSlice(key, sep string) []string {
	s := getEnv(key, "")
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
