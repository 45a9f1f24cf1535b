package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token            string  `yaml:"token"`
	Workers          int     `yaml:"workers"` // polling workers
	AdminIDs         []int64 `yaml:"admin_ids"`
	LiveStockChatID  int64   `yaml:"live_stock_chat_id"`
	PurchaseLogChatID int64  `yaml:"purchase_log_chat_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port       int           `yaml:"port"`
	Password   string        `yaml:"password"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// ProductConfig overrides one catalog entry. Prices are integers in the
// smallest currency unit.
type ProductConfig struct {
	Type      string `yaml:"type"`
	Title     string `yaml:"title"`
	Period    string `yaml:"period"`
	UnitPrice int64  `yaml:"unit_price"`
}

type ReportConfig struct {
	Timezone string `yaml:"timezone"`
}

type LiveStockConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type RateLimitConfig struct {
	PerUser int           `yaml:"per_user"`
	Window  time.Duration `yaml:"window"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Catalog   []ProductConfig `yaml:"catalog"`
	Report    ReportConfig    `yaml:"report"`
	LiveStock LiveStockConfig `yaml:"live_stock"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "Asia/Jakarta"
	}
	if cfg.LiveStock.Interval <= 0 {
		cfg.LiveStock.Interval = 10 * time.Second
	}
	if cfg.RateLimit.PerUser <= 0 {
		cfg.RateLimit.PerUser = 10
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Minute
	}
	return d
}
