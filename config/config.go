package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	HTTPAddr      string `yaml:"http_addr"`

	SessionStore  string        `yaml:"session_store"` // memory | redis
	SessionTTL    time.Duration `yaml:"session_ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`

	AnalysisDelay  time.Duration `yaml:"analysis_delay"`
	PreviewMaxSide int           `yaml:"preview_max_side"`

	Environment string `yaml:"environment"` // development, production
	LogLevel    string `yaml:"log_level"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		SessionStore:   StoreMemory,
		SessionTTL:     24 * time.Hour,
		RedisAddr:      "localhost:6379",
		AnalysisDelay:  3 * time.Second,
		PreviewMaxSide: 512,
		Environment:    "development",
		LogLevel:       "info",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE,
// затем переменные окружения (в том числе из .env).
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		c.SessionStore = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = db
	}
	if v := os.Getenv("PREVIEW_MAX_SIDE"); v != "" {
		side, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PREVIEW_MAX_SIDE: %w", err)
		}
		c.PreviewMaxSide = side
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	if v := os.Getenv("ANALYSIS_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANALYSIS_DELAY: %w", err)
		}
		c.AnalysisDelay = delay
	}

	return nil
}

// Validate проверяет, что включён хотя бы один вход и хранилище известно
func (c *Config) Validate() error {
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		return errors.New("TELEGRAM_TOKEN or HTTP_ADDR is required")
	}
	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	if c.AnalysisDelay < 0 {
		return errors.New("analysis delay cannot be negative")
	}
	return nil
}

// IsDevelopment возвращает true для окружения development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
