package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Scraper  ScraperConfig
	LLM      LLMConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DatabaseConfig struct {
	DSN         string
	AutoMigrate bool
}

type ScraperConfig struct {
	Timeout       time.Duration
	UserAgent     string
	MaxChars      int
	MinLineLength int
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Server      string
	Temperature float64
	Timeout     time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	QuizTTL time.Duration
}

const (
	DefaultDSN       = "sqlite:///./quiz_history.db"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "90s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.allowed_origins", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("database.dsn", DefaultDSN)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("scraper.timeout", "10s")
	v.SetDefault("scraper.user_agent", DefaultUserAgent)
	v.SetDefault("scraper.max_chars", 8000)
	v.SetDefault("scraper.min_line_length", 20)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.server", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.quiz_ttl", "24h")
}

// LoadConfig reads .env, an optional config.yaml and the environment, in
// increasing order of precedence, and validates everything the API server needs.
func LoadConfig() (*Config, error) {
	config, err := load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadMigrationConfig loads the same sources as LoadConfig but only checks
// the database section, so migrations run without LLM credentials.
func LoadMigrationConfig() (*Config, error) {
	config, err := load()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateDatabase(); err != nil {
		return nil, err
	}
	return config, nil
}

func load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
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
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			AllowedOrigins: v.GetString("server.allowed_origins"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Database: DatabaseConfig{
			DSN:         v.GetString("database.dsn"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Scraper: ScraperConfig{
			Timeout:       v.GetDuration("scraper.timeout"),
			UserAgent:     v.GetString("scraper.user_agent"),
			MaxChars:      v.GetInt("scraper.max_chars"),
			MinLineLength: v.GetInt("scraper.min_line_length"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			Server:      v.GetString("llm.server"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			QuizTTL: v.GetDuration("cache.quiz_ttl"),
		},
	}

	// Override with the conventional variable names if set
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		config.Database.DSN = dsn
	}
	if env := os.Getenv("ENV"); env != "" && os.Getenv("LOGGER_ENV") == "" {
		config.Logger.Env = env
	}
	if config.LLM.APIKey == "" {
		switch config.LLM.Provider {
		case "gemini":
			config.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	return config, nil
}

// ValidateDatabase checks the settings needed to open the store.
func (c *Config) ValidateDatabase() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn cannot be empty")
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	case "ollama":
		if c.LLM.Server == "" {
			return fmt.Errorf("llm.server is required for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.Scraper.Timeout <= 0 || c.LLM.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout and llm.timeout must be positive")
	}
	if c.Scraper.MaxChars <= 0 {
		return fmt.Errorf("scraper.max_chars must be positive")
	}
	return nil
}
