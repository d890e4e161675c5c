package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/careercoach-backend/internal/platform/envutil"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port        string
	LogMode     string
	CORSOrigins []string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DBDriver    string
	SQLitePath  string
	PostgresDSN string

	ModelProvider     string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string
	ModelRetryBackoff time.Duration

	ResumeStore       string
	ResumeDir         string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	RedisAddr     string
	RedisPassword string

	MaxUploadBytes      int64
	BulkSelectThreshold int

	MetricsEnabled  bool
	OTelEnabled     bool
	OTelEndpoint    string
	OTelInsecure    bool
	OTelSampleRatio float64
	OTelServiceName string
	OTelEnvironment string
}

// LoadEnvFile loads ENV_FILE (default .env) into the process environment.
// Variables already set win over the file, and a missing file is not an error.
func LoadEnvFile() error {
	path := envutil.String("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		CORSOrigins: envutil.CSV("CORS_ORIGINS", nil),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", services.DefaultAccessTTL),

		DBDriver:    strings.ToLower(envutil.String("DB_DRIVER", "sqlite")),
		SQLitePath:  envutil.String("SQLITE_PATH", "career_coach.db"),
		PostgresDSN: postgresDSN(),

		ModelProvider:     strings.ToLower(envutil.String("MODEL_PROVIDER", "")),
		OpenAIAPIKey:      envutil.String("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     envutil.String("OPENAI_BASE_URL", ""),
		OpenAIModel:       envutil.String("OPENAI_MODEL", ""),
		GeminiAPIKey:      envutil.String("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.String("GEMINI_MODEL", ""),
		ModelRetryBackoff: time.Duration(envutil.Int("MODEL_RETRY_BACKOFF_MS", 750)) * time.Millisecond,

		ResumeStore:       strings.ToLower(envutil.String("RESUME_STORE", "local")),
		ResumeDir:         envutil.String("RESUME_DIR", "data/resumes"),
		S3Bucket:          envutil.String("S3_BUCKET", ""),
		S3Region:          envutil.String("S3_REGION", "auto"),
		S3Endpoint:        envutil.String("S3_ENDPOINT", ""),
		S3AccessKeyID:     envutil.String("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: envutil.String("S3_SECRET_ACCESS_KEY", ""),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),

		MaxUploadBytes:      int64(envutil.Int("MAX_UPLOAD_MB", 10)) << 20,
		BulkSelectThreshold: envutil.Int("BULK_SELECT_THRESHOLD", services.DefaultSelectThreshold),

		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", false),
		OTelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OTelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTelSampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
		OTelServiceName: envutil.String("OTEL_SERVICE_NAME", "careercoach-api"),
		OTelEnvironment: envutil.String("APP_ENV", "development"),
	}
	if cfg.ModelProvider == "" {
		cfg.ModelProvider = "openai"
		if cfg.OpenAIAPIKey == "" && cfg.GeminiAPIKey != "" {
			cfg.ModelProvider = "gemini"
		}
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if log != nil {
		if cfg.JWTSecretKey == defaultJWTSecret {
			log.Warn("JWT_SECRET_KEY is not set, using the development default")
		}
		log.Info("Config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DBDriver,
			"model_provider", cfg.ModelProvider,
			"resume_store", cfg.ResumeStore,
			"redis", cfg.RedisAddr != "",
			"metrics", cfg.MetricsEnabled,
			"otel", cfg.OTelEnabled,
		)
	}
	return cfg
}

// postgresDSN prefers POSTGRES_DSN and otherwise assembles one from the
// individual POSTGRES_* keys.
func postgresDSN() string {
	if dsn := envutil.String("POSTGRES_DSN", ""); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		User: url.UserPassword(
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
		),
		Host: envutil.String("POSTGRES_HOST", "localhost") + ":" + envutil.String("POSTGRES_PORT", "5432"),
		Path: "/" + envutil.String("POSTGRES_NAME", "careercoach"),
	}
	q := url.Values{}
	q.Set("sslmode", envutil.String("POSTGRES_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}
