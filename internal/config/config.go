package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env    string
	DB     DBConfig
	Server ServerConfig
	Redis  RedisConfig
	LLM    LLMConfig
	Quiz   QuizConfig
	Logger LoggerConfig
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	// ScratchTTL bounds how long the current-quiz and last-result slots live.
	ScratchTTL time.Duration
}

// DBConfig selects one of the registered drivers: "oracle", "pgx" or
// "sqlite". DSN wins over the discrete fields when set.
type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// LLMConfig selects the completion provider. Provider is one of "gemini",
// "openai", "anthropic", "ollama", "googleai" or "mock".
type LLMConfig struct {
	Provider      string
	Model         string
	AnalysisModel string
	APIKey        string
	ServerURL     string
	BaseURL       string
	Timeout       time.Duration
	MaxTokens     int
	Retry         RetryConfig
}

type QuizConfig struct {
	MaxSourceChars     int
	DefaultTimeLimit   time.Duration
	ListLimit          int
	RecentResultsLimit int
	MaxQuestionCount   int
}

type LoggerConfig struct {
	Level string
	Env   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.body_limit", 4*1024*1024)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:quizforge.db")
	v.SetDefault("db.port", 1521)

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.scratch_ttl", "24h")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.initial_wait", "1s")
	v.SetDefault("llm.retry.max_wait", "30s")

	v.SetDefault("quiz.max_source_chars", 15000)
	v.SetDefault("quiz.default_time_limit", "600s")
	v.SetDefault("quiz.list_limit", 20)
	v.SetDefault("quiz.recent_results_limit", 50)
	v.SetDefault("quiz.max_question_count", 50)

	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml from the working directory or ./configs and
// applies environment overrides (SERVER_PORT, DB_DRIVER, LLM_API_KEY, ...).
// A missing file is not an error; defaults cover every key.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if path := os.Getenv("QUIZFORGE_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Env: v.GetString("env"),
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			DSN:      v.GetString("db.dsn"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Redis: RedisConfig{
			Address:    v.GetString("redis.address"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			ScratchTTL: v.GetDuration("redis.scratch_ttl"),
		},
		LLM: LLMConfig{
			Provider:      v.GetString("llm.provider"),
			Model:         v.GetString("llm.model"),
			AnalysisModel: v.GetString("llm.analysis_model"),
			APIKey:        v.GetString("llm.api_key"),
			ServerURL:     v.GetString("llm.server_url"),
			BaseURL:       v.GetString("llm.base_url"),
			Timeout:       v.GetDuration("llm.timeout"),
			MaxTokens:     v.GetInt("llm.max_tokens"),
			Retry: RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
			},
		},
		Quiz: QuizConfig{
			MaxSourceChars:     v.GetInt("quiz.max_source_chars"),
			DefaultTimeLimit:   v.GetDuration("quiz.default_time_limit"),
			ListLimit:          v.GetInt("quiz.list_limit"),
			RecentResultsLimit: v.GetInt("quiz.recent_results_limit"),
			MaxQuestionCount:   v.GetInt("quiz.max_question_count"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("env"),
		},
	}

	// Provider-specific key variables are honored when the generic one is unset.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func providerAPIKey(provider string) string {
	switch provider {
	case "gemini", "googleai":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "oracle", "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.Quiz.MaxSourceChars <= 0 {
		return fmt.Errorf("quiz.max_source_chars must be positive")
	}
	if c.LLM.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return nil
}

// GetDSN returns the driver-specific connection string.
func (c *Config) GetDSN() string {
	if c.DB.DSN != "" && (c.DB.Driver == "sqlite" || c.DB.Host == "") {
		return c.DB.DSN
	}
	u := url.URL{
		User: url.UserPassword(c.DB.User, c.DB.Password),
		Host: fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path: "/" + c.DB.DBName,
	}
	switch c.DB.Driver {
	case "oracle":
		u.Scheme = "oracle"
		return u.String()
	case "pgx":
		u.Scheme = "postgres"
		u.RawQuery = "sslmode=disable"
		return u.String()
	}
	return c.DB.DSN
}
