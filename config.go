package quizzo

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the bot's runtime settings.
type Config struct {
	DiscordToken   string `yaml:"discord_token" env:"QUIZZO_DISCORD_TOKEN"`
	ValkeyAddress  string `yaml:"valkey_address" env:"QUIZZO_VALKEY_ADDRESS"`
	RelayChannel   string `yaml:"relay_channel" env:"QUIZZO_RELAY_CHANNEL"`
	LeaderboardKey string `yaml:"leaderboard_key" env:"QUIZZO_LEADERBOARD_KEY"`
	Prefix         string `yaml:"prefix" env:"QUIZZO_PREFIX"`
	MsgBufferSize  int    `yaml:"msg_buffer_size" env:"QUIZZO_MSG_BUFFER_SIZE"`
	LogLevel       string `yaml:"log_level" env:"QUIZZO_LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" env:"QUIZZO_LOG_FORMAT"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		ValkeyAddress:  "localhost:6379",
		LeaderboardKey: "quizzo:leaderboard",
		Prefix:         "!",
		MsgBufferSize:  100,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadConfig applies the YAML file at path, if any, over the defaults and
// then QUIZZO_* environment variables over that.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Unset variables leave the field as it is.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the bot cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DiscordToken == "" && c.RelayChannel == "" {
		errs = append(errs, errors.New("at least one of discord_token or relay_channel is required"))
	}
	if c.ValkeyAddress == "" {
		errs = append(errs, errors.New("valkey_address is required"))
	}
	if c.LeaderboardKey == "" {
		errs = append(errs, errors.New("leaderboard_key is required"))
	}
	if c.Prefix == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Options converts the config into bot and transport options.
func (c Config) Options(logger logrus.FieldLogger) []Option {
	return []Option{
		WithPrefix(c.Prefix),
		WithMsgBufferSize(c.MsgBufferSize),
		WithLogger(logger),
	}
}

// NewLogger builds a logger from the config's level and format.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid log level %s, defaulting to info", c.LogLevel)
	}
	return logger
}
