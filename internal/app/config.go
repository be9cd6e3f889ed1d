package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Pinecone PineconeConfig `mapstructure:"pinecone"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Otel     OtelConfig     `mapstructure:"otel"`
	CORS     CORSConfig     `mapstructure:"cors"`

	// ExternalCallTimeoutSeconds bounds every OpenAI and Pinecone call.
	ExternalCallTimeoutSeconds int `mapstructure:"external_call_timeout_seconds"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"env"`
	Version     string `mapstructure:"version"`
	Port        int    `mapstructure:"port"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type LogConfig struct {
	Mode             string `mapstructure:"mode"`
	RedactionEnabled bool   `mapstructure:"redaction_enabled"`
	HashSalt         string `mapstructure:"hash_salt"`
}

type AuthConfig struct {
	JWTSecretKey           string `mapstructure:"jwt_secret_key"`
	AccessTokenTTLSeconds  int    `mapstructure:"access_token_ttl"`
	RefreshTokenTTLSeconds int    `mapstructure:"refresh_token_ttl"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	Name                   string `mapstructure:"name"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime_seconds"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type OpenAIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	Model             string  `mapstructure:"model"`
	EmbedModel        string  `mapstructure:"embed_model"`
	MaxRetries        int     `mapstructure:"max_retries"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type PineconeConfig struct {
	APIKey      string `mapstructure:"api_key"`
	APIVersion  string `mapstructure:"api_version"`
	BaseURL     string `mapstructure:"base_url"`
	IndexName   string `mapstructure:"index_name"`
	IndexHost   string `mapstructure:"index_host"`
	Namespace   string `mapstructure:"namespace"`
	Dimension   int    `mapstructure:"dimension"`
	Cloud       string `mapstructure:"cloud"`
	Region      string `mapstructure:"region"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
}

type ChatConfig struct {
	RateLimit         int `mapstructure:"rate_limit"`
	RateWindowSeconds int `mapstructure:"rate_window_seconds"`
	HistorySize       int `mapstructure:"history_size"`
	StateTTLHours     int `mapstructure:"state_ttl_hours"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenTTLSeconds) * time.Second
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenTTLSeconds) * time.Second
}

func (c Config) ExternalTimeout() time.Duration {
	return time.Duration(c.ExternalCallTimeoutSeconds) * time.Second
}

func (c Config) ChatRateWindow() time.Duration {
	return time.Duration(c.Chat.RateWindowSeconds) * time.Second
}

func (c Config) ChatStateTTL() time.Duration {
	return time.Duration(c.Chat.StateTTLHours) * time.Hour
}

func (c Config) Production() bool {
	switch strings.ToLower(strings.TrimSpace(c.App.Environment)) {
	case "prod", "production":
		return true
	}
	return false
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// LoadConfig reads .env, configs/config.yaml, configs/config.<APP_ENV>.yaml and
// the environment, in increasing order of precedence.
func LoadConfig(log *logger.Logger) (Config, error) {
	loadDotEnv(log)
	return loadConfig(log, "./configs", ".")
}

func loadDotEnv(log *logger.Logger) {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		log.Info("Loaded env file", "path", path)
		return
	}
}

func loadConfig(log *logger.Logger, paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Flat names kept for existing deployments.
	_ = v.BindEnv("auth.jwt_secret_key", "AUTH_JWT_SECRET_KEY", "JWT_SECRET_KEY")
	_ = v.BindEnv("auth.access_token_ttl", "AUTH_ACCESS_TOKEN_TTL", "ACCESS_TOKEN_TTL")
	_ = v.BindEnv("auth.refresh_token_ttl", "AUTH_REFRESH_TOKEN_TTL", "REFRESH_TOKEN_TTL")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT", "PORT")
	_ = v.BindEnv("log.mode", "LOG_MODE")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Info("Loaded config file", "path", v.ConfigFileUsed())
	}

	if env := strings.TrimSpace(v.GetString("app.env")); env != "" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("merge %s config: %w", env, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORS.Origins = splitList(cfg.CORS.Origins)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Auth.JWTSecretKey == defaultJWTSecret {
		log.Warn("Using the default JWT secret; set JWT_SECRET_KEY")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "majormatch-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.auto_migrate", true)

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.redaction_enabled", true)
	v.SetDefault("log.hash_salt", "")

	v.SetDefault("auth.jwt_secret_key", defaultJWTSecret)
	v.SetDefault("auth.access_token_ttl", 3600)
	v.SetDefault("auth.refresh_token_ttl", 86400)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "majormatch")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_seconds", 1800)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "majormatch:chat")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.embed_model", "text-embedding-3-small")
	v.SetDefault("openai.max_retries", 0)
	v.SetDefault("openai.requests_per_second", 0)
	v.SetDefault("openai.burst", 1)

	v.SetDefault("pinecone.api_key", "")
	v.SetDefault("pinecone.api_version", "2025-10")
	v.SetDefault("pinecone.base_url", "https://api.pinecone.io")
	v.SetDefault("pinecone.index_name", "riasec-cases")
	v.SetDefault("pinecone.index_host", "")
	v.SetDefault("pinecone.namespace", "")
	v.SetDefault("pinecone.dimension", 1536)
	v.SetDefault("pinecone.cloud", "aws")
	v.SetDefault("pinecone.region", "us-east-1")
	v.SetDefault("pinecone.seed_on_start", true)

	v.SetDefault("chat.rate_limit", 100)
	v.SetDefault("chat.rate_window_seconds", 3600)
	v.SetDefault("chat.history_size", 20)
	v.SetDefault("chat.state_ttl_hours", 168)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "majormatch-backend")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("cors.origins", []string{})

	v.SetDefault("external_call_timeout_seconds", 30)
}

func (c Config) validate() error {
	var problems []string
	if strings.TrimSpace(c.Auth.JWTSecretKey) == "" {
		problems = append(problems, "auth.jwt_secret_key is required")
	}
	if c.Production() && c.Auth.JWTSecretKey == defaultJWTSecret {
		problems = append(problems, "auth.jwt_secret_key must be set in production")
	}
	if c.Auth.AccessTokenTTLSeconds <= 0 || c.Auth.RefreshTokenTTLSeconds <= 0 {
		problems = append(problems, "auth token ttls must be positive")
	}
	if strings.TrimSpace(c.Postgres.Host) == "" || strings.TrimSpace(c.Postgres.Name) == "" {
		problems = append(problems, "postgres.host and postgres.name are required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("app.port %d out of range", c.App.Port))
	}
	if c.ExternalCallTimeoutSeconds <= 0 {
		problems = append(problems, "external_call_timeout_seconds must be positive")
	}
	if c.Chat.RateLimit <= 0 || c.Chat.RateWindowSeconds <= 0 {
		problems = append(problems, "chat rate limit and window must be positive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// splitList flattens entries that arrive comma separated from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
