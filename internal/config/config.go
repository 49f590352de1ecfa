package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables holding the SMTP credentials. They are never read
// from the TOML file.
const (
	EnvSMTPUser = "SANTA_SMTP_USER"
	EnvSMTPPass = "SANTA_SMTP_PASS"
	EnvSMTPHost = "SANTA_SMTP_HOST"
	EnvSMTPPort = "SANTA_SMTP_PORT"
)

type Config struct {
	Roster string `toml:"roster"`
	SMTP   struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		From     string `toml:"from"`
		Subject  string `toml:"subject"`
		Username string `toml:"-"`
		Password string `toml:"-"`
	} `toml:"smtp"`
	Server struct {
		Addr       string `toml:"addr"`
		SessionTTL string `toml:"session_ttl"`
	} `toml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SMTP.Host = "smtp.gmail.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.Subject = "Secret Santa Assignment For {name}"
	cfg.Server.Addr = ":8080"
	cfg.Server.SessionTTL = "1h"
	return cfg
}

// Load reads the TOML file at path over the defaults, then applies the
// environment. envFile is loaded into the environment first; a missing
// ".env" is ignored but a missing explicit envFile is an error.
// Either path may be empty.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if v := os.Getenv(EnvSMTPHost); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv(EnvSMTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvSMTPPort, v, err)
		}
		cfg.SMTP.Port = port
	}
	cfg.SMTP.Username = os.Getenv(EnvSMTPUser)
	cfg.SMTP.Password = os.Getenv(EnvSMTPPass)
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	if _, err := cfg.TTL(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TTL returns how long an idle server session is kept.
func (c *Config) TTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl %q: %w", c.Server.SessionTTL, err)
	}
	return ttl, nil
}
