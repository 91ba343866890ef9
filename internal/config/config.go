package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the immutable per-session values the terminal is
// started with.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	RoomID     string `yaml:"room_id"`
	PlayerName string `yaml:"player_name"`

	PollInterval time.Duration `yaml:"poll_interval"`

	InitialPrice  float64 `yaml:"initial_price"`
	InitialCash   float64 `yaml:"initial_cash"`
	InitialShares int     `yaml:"initial_shares"`
	MaxRounds     int     `yaml:"max_rounds"`

	Muted   bool   `yaml:"muted"`
	LogFile string `yaml:"log_file"`
}

// LoadFromEnv builds a config from MC_-prefixed environment variables
// with defaults matching the game server's standard room settings.
func LoadFromEnv() Config {
	return Config{
		ServerURL:     strings.TrimRight(envDefault("MC_SERVER_URL", "http://localhost:8086"), "/"),
		RoomID:        strings.TrimSpace(os.Getenv("MC_ROOM_ID")),
		PlayerName:    strings.TrimSpace(os.Getenv("MC_PLAYER_NAME")),
		PollInterval:  envDurationDefault("MC_POLL_INTERVAL", time.Second),
		InitialPrice:  envFloatDefault("MC_INITIAL_PRICE", 100),
		InitialCash:   envFloatDefault("MC_INITIAL_CASH", 1000),
		InitialShares: envIntDefault("MC_INITIAL_SHARES", 0),
		MaxRounds:     envIntDefault("MC_MAX_ROUNDS", 20),
		Muted:         envBoolDefault("MC_MUTED", false),
		LogFile:       envDefault("MC_LOG_FILE", ""),
	}
}

// LoadFile overlays a YAML config file onto cfg. ${VAR} references in
// the file are expanded from the environment. Zero-valued file fields
// leave the existing value alone.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var file Config
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if file.ServerURL != "" {
		cfg.ServerURL = strings.TrimRight(file.ServerURL, "/")
	}
	if file.RoomID != "" {
		cfg.RoomID = file.RoomID
	}
	if file.PlayerName != "" {
		cfg.PlayerName = file.PlayerName
	}
	if file.PollInterval > 0 {
		cfg.PollInterval = file.PollInterval
	}
	if file.InitialPrice > 0 {
		cfg.InitialPrice = file.InitialPrice
	}
	if file.InitialCash > 0 {
		cfg.InitialCash = file.InitialCash
	}
	if file.InitialShares > 0 {
		cfg.InitialShares = file.InitialShares
	}
	if file.MaxRounds > 0 {
		cfg.MaxRounds = file.MaxRounds
	}
	if file.Muted {
		cfg.Muted = true
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	return cfg, nil
}

// Validate checks the fields the terminal cannot run without.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
