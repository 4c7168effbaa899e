// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Port     int     `yaml:"port"`
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
	// VIPChatID is the private VIP group; membership of it is the external
	// VIP flag.
	VIPChatID int64 `yaml:"vip_chat_id"`
	// CommunityChatID is the public community group. Joins there start the
	// free trial. Zero disables trials.
	CommunityChatID int64 `yaml:"community_chat_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ReconcileConfig struct {
	// Interval between automatic passes; autocheck toggle gates firing.
	Interval time.Duration `yaml:"interval"`
	// CodeTTL is how long freshly generated codes stay redeemable.
	CodeTTL time.Duration `yaml:"code_ttl"`
	// TrialWindow is the free-trial length granted on join. Zero disables
	// trials.
	TrialWindow time.Duration `yaml:"trial_window"`
	// TrialSweep is how often due trial timers are collected.
	TrialSweep time.Duration `yaml:"trial_sweep"`
	// ExpiryWarn is the end-of-subscription warning horizon.
	ExpiryWarn time.Duration `yaml:"expiry_warn"`
}

type TogglesConfig struct {
	Quiet     bool `yaml:"quiet"`
	RoleSync  bool `yaml:"role_sync"`
	AutoCheck bool `yaml:"auto_check"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Toggles   TogglesConfig   `yaml:"toggles"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
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
	if cfg.Reconcile.Interval <= 0 {
		cfg.Reconcile.Interval = time.Hour
	}
	if cfg.Reconcile.CodeTTL <= 0 {
		cfg.Reconcile.CodeTTL = 7 * 24 * time.Hour
	}
	if cfg.Reconcile.TrialSweep <= 0 {
		cfg.Reconcile.TrialSweep = 30 * time.Second
	}
	if cfg.Reconcile.ExpiryWarn <= 0 {
		cfg.Reconcile.ExpiryWarn = 24 * time.Hour
	}

	// Minimal validation. Dev mode may run without a bot token; the app then
	// substitutes the noop chat adapter.
	if cfg.Bot.Token == "" && !dev {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.VIPChatID == 0 && !dev {
		return nil, errors.New("bot.vip_chat_id is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
