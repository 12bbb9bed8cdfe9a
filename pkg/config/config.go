package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// LLM providers understood by the completion client factory.
const (
	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	LLM      LLMConfig
	Identity IdentityConfig
	Exams    ExamConfig
	Papers   PapersConfig
	Stats    StatsConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LLMConfig selects and tunes the external completion service.
// An empty APIKey implies mock mode.
type LLMConfig struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Mock       bool
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// MockMode reports whether the deterministic local generator must be used.
func (c LLMConfig) MockMode() bool {
	return c.Mock || strings.TrimSpace(c.APIKey) == ""
}

// IdentityConfig provides the fallback actor used when a request carries no bearer token.
type IdentityConfig struct {
	DefaultTeacherID int64
	DefaultClassID   int64
}

// ExamConfig governs exam sessions.
type ExamConfig struct {
	SessionBaseURL string
	SessionTTL     time.Duration
}

// PapersConfig configures asynchronous paper exports.
type PapersConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// StatsConfig governs caching of exam statistics.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), 30*time.Minute),
		ConnMaxIdleTime: parseDuration(v.GetString("DB_CONN_MAX_IDLE_TIME"), 10*time.Minute),
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
	}
	if strings.TrimSpace(cfg.Database.Host) == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port <= 0 {
		cfg.Database.Port = 5432
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.LLM = LLMConfig{
		Provider:   strings.ToLower(v.GetString("LLM_PROVIDER")),
		APIKey:     v.GetString("LLM_API_KEY"),
		Model:      v.GetString("LLM_MODEL"),
		BaseURL:    v.GetString("LLM_BASE_URL"),
		Mock:       v.GetBool("LLM_MOCK"),
		MaxRetries: v.GetInt("LLM_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("LLM_RETRY_DELAY"), time.Second),
		Timeout:    parseDuration(v.GetString("LLM_TIMEOUT"), 60*time.Second),
	}
	if cfg.LLM.APIKey == "" {
		// Older deployments set a bare API_KEY variable.
		cfg.LLM.APIKey = v.GetString("API_KEY")
	}

	cfg.Identity = IdentityConfig{
		DefaultTeacherID: v.GetInt64("DEFAULT_TEACHER_ID"),
		DefaultClassID:   v.GetInt64("DEFAULT_CLASS_ID"),
	}

	cfg.Exams = ExamConfig{
		SessionBaseURL: strings.TrimRight(v.GetString("EXAM_SESSION_BASE_URL"), "/"),
		SessionTTL:     parseDuration(v.GetString("EXAM_SESSION_TTL"), 4*time.Hour),
	}

	cfg.Papers = PapersConfig{
		StorageDir:        v.GetString("PAPERS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("PAPERS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("PAPERS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("PAPERS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("PAPERS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("PAPERS_WORKER_RETRIES"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("STATS_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on missing required connection parameters.
func (c DatabaseConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.User) == "":
		return fmt.Errorf("missing environment variable: DB_USER")
	case strings.TrimSpace(c.Password) == "":
		return fmt.Errorf("missing environment variable: DB_PASSWORD")
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("missing environment variable: DB_NAME")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 15)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "10m")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LLM_PROVIDER", LLMProviderGemini)
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_BASE_URL", "")
	v.SetDefault("LLM_MOCK", false)
	v.SetDefault("LLM_MAX_RETRIES", 3)
	v.SetDefault("LLM_RETRY_DELAY", "1s")
	v.SetDefault("LLM_TIMEOUT", "60s")

	v.SetDefault("DEFAULT_TEACHER_ID", 1)
	v.SetDefault("DEFAULT_CLASS_ID", 1)

	v.SetDefault("EXAM_SESSION_BASE_URL", "https://teach-assistant.com")
	v.SetDefault("EXAM_SESSION_TTL", "4h")

	v.SetDefault("PAPERS_STORAGE_DIR", "./papers")
	v.SetDefault("PAPERS_SIGNED_URL_SECRET", "dev_papers_secret")
	v.SetDefault("PAPERS_SIGNED_URL_TTL", "24h")
	v.SetDefault("PAPERS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("PAPERS_WORKER_CONCURRENCY", 1)
	v.SetDefault("PAPERS_WORKER_RETRIES", 3)

	v.SetDefault("STATS_CACHE_ENABLED", false)
	v.SetDefault("STATS_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
