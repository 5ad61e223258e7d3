package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken  string         `yaml:"discord_token"`
	DatabaseURL   string         `yaml:"database_url"`
	RedisURL      string         `yaml:"redis_url"`
	LogLevel      string         `yaml:"log_level"`
	RetentionDays int            `yaml:"retention_days"`
	Health        HealthConfig   `yaml:"health"`
	AutoMod       AutoModConfig  `yaml:"automod"`
	AntiRaid      AntiRaidConfig `yaml:"antiraid"`
	Defaults      Defaults       `yaml:"defaults"`
	Notifications NotifyConfig   `yaml:"notifications"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type AutoModConfig struct {
	CacheTTLSeconds      int `yaml:"cache_ttl_seconds"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	HistoryMaxAgeSeconds int `yaml:"history_max_age_seconds"`
	BadwordCacheMinutes  int `yaml:"badword_cache_minutes"`
}

type AntiRaidConfig struct {
	LockdownMinutes int `yaml:"lockdown_minutes"`
}

type Defaults struct {
	LogChannelID string `yaml:"log_channel_id"`
}

type NotifyConfig struct {
	DMEnabled   bool        `yaml:"dm_enabled"`
	EmbedColors EmbedColors `yaml:"embed_colors"`
}

type EmbedColors struct {
	Info    int `yaml:"info"`
	Success int `yaml:"success"`
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		RetentionDays: 30,
		Health:        HealthConfig{Enabled: false, Addr: ":8080"},
		AutoMod: AutoModConfig{
			CacheTTLSeconds:      60,
			SweepIntervalSeconds: 60,
			HistoryMaxAgeSeconds: 30,
			BadwordCacheMinutes:  5,
		},
		AntiRaid: AntiRaidConfig{LockdownMinutes: 5},
		Notifications: NotifyConfig{
			DMEnabled: true,
			EmbedColors: EmbedColors{
				Info:    0x3B82F6,
				Success: 0x22C55E,
				Warning: 0xF59E0B,
				Error:   0xEF4444,
			},
		},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.RetentionDays = envInt("RETENTION_DAYS", cfg.RetentionDays)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.AutoMod.CacheTTLSeconds = envInt("AUTOMOD_CACHE_TTL_SECONDS", cfg.AutoMod.CacheTTLSeconds)
	cfg.AutoMod.SweepIntervalSeconds = envInt("AUTOMOD_SWEEP_INTERVAL_SECONDS", cfg.AutoMod.SweepIntervalSeconds)
	cfg.AutoMod.HistoryMaxAgeSeconds = envInt("AUTOMOD_HISTORY_MAX_AGE_SECONDS", cfg.AutoMod.HistoryMaxAgeSeconds)
	cfg.AutoMod.BadwordCacheMinutes = envInt("AUTOMOD_BADWORD_CACHE_MINUTES", cfg.AutoMod.BadwordCacheMinutes)
	cfg.AntiRaid.LockdownMinutes = envInt("ANTIRAID_LOCKDOWN_MINUTES", cfg.AntiRaid.LockdownMinutes)
	cfg.Defaults.LogChannelID = envString("DEFAULT_LOG_CHANNEL_ID", cfg.Defaults.LogChannelID)
	cfg.Notifications.DMEnabled = envBool("DM_ENABLED", cfg.Notifications.DMEnabled)
	cfg.Notifications.EmbedColors.Info = envInt("EMBED_COLOR_INFO", cfg.Notifications.EmbedColors.Info)
	cfg.Notifications.EmbedColors.Success = envInt("EMBED_COLOR_SUCCESS", cfg.Notifications.EmbedColors.Success)
	cfg.Notifications.EmbedColors.Warning = envInt("EMBED_COLOR_WARNING", cfg.Notifications.EmbedColors.Warning)
	cfg.Notifications.EmbedColors.Error = envInt("EMBED_COLOR_ERROR", cfg.Notifications.EmbedColors.Error)
}

func (c AutoModConfig) CacheTTL() time.Duration {
	return seconds(c.CacheTTLSeconds)
}

func (c AutoModConfig) SweepInterval() time.Duration {
	return seconds(c.SweepIntervalSeconds)
}

func (c AutoModConfig) HistoryMaxAge() time.Duration {
	return seconds(c.HistoryMaxAgeSeconds)
}

func (c AutoModConfig) BadwordCacheTTL() time.Duration {
	if c.BadwordCacheMinutes <= 0 {
		return 0
	}
	return time.Duration(c.BadwordCacheMinutes) * time.Minute
}

func (c AntiRaidConfig) LockdownExpiry() time.Duration {
	if c.LockdownMinutes <= 0 {
		return 0
	}
	return time.Duration(c.LockdownMinutes) * time.Minute
}

// seconds returns zero for unset values so components fall back to their
// own defaults.
func seconds(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(strings.ToLower(level)))
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
