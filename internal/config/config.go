// Package config loads shotbot settings from ~/.shotbot/config.toml, the
// environment and an optional .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/shotbot/internal/ports"
)

const (
	EnvPrefix = "SHOTBOT"

	StoreRedis = "redis"
	StoreTOML  = "toml"

	RobotBridge = "bridge"
	RobotSim    = "sim"

	configDir  = ".shotbot"
	configFile = "config.toml"
)

type Config struct {
	Store StoreConfig
	Redis RedisConfig
	Robot RobotConfig
	MQTT  MQTTConfig
	Party PartyConfig
	Log   LogConfig
}

type StoreConfig struct {
	Backend string
	Path    string
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	PasswordRef string
	TLS         bool
	DB          int
	DialTimeout time.Duration
}

type RobotConfig struct {
	Backend     string
	BridgeURL   string
	CallTimeout time.Duration
}

// MQTTConfig is optional; an empty broker means events only go to the log.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

type PartyConfig struct {
	ServeWindow      time.Duration
	RoamDuration     time.Duration
	IdentifyAttempts int
	SearchRounds     int
	ToleranceWindow  time.Duration
	ButtonPoll       time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type LoadOptions struct {
	// ConfigFile defaults to ~/.shotbot/config.toml. A missing file is fine.
	ConfigFile string
	// EnvFile defaults to .env in the working directory. A missing file is fine.
	EnvFile string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", StoreRedis)
	v.SetDefault("redis.port", 6380)
	v.SetDefault("redis.tls", true)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("robot.backend", RobotBridge)
	v.SetDefault("robot.bridge_url", "ws://127.0.0.1:8765/robot")
	v.SetDefault("robot.call_timeout", 30*time.Second)
	v.SetDefault("mqtt.topic", "shotbot/events")
	v.SetDefault("mqtt.client_id", "shotbot")
	v.SetDefault("party.serve_window", time.Second)
	v.SetDefault("party.roam_duration", time.Minute)
	v.SetDefault("party.identify_attempts", 3)
	v.SetDefault("party.search_rounds", 0)
	v.SetDefault("party.tolerance_window", 10*time.Second)
	v.SetDefault("party.button_poll", 50*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load populates v from defaults, the config file and the environment, then
// decodes it. REDIS_HOST_NAME and REDIS_ACCESS_KEY are honoured alongside the
// SHOTBOT_ prefixed variables.
func Load(v *viper.Viper, opts LoadOptions) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("redis.host", EnvPrefix+"_REDIS_HOST", "REDIS_HOST_NAME"); err != nil {
		return Config{}, fmt.Errorf("bind redis host env: %w", err)
	}
	if err := v.BindEnv("redis.password", EnvPrefix+"_REDIS_PASSWORD", "REDIS_ACCESS_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind redis password env: %w", err)
	}

	path := opts.ConfigFile
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, configDir, configFile)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Config{
		Store: StoreConfig{
			Backend: strings.ToLower(v.GetString("store.backend")),
			Path:    v.GetString("store.path"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("redis.host"),
			Port:        v.GetInt("redis.port"),
			Password:    v.GetString("redis.password"),
			PasswordRef: v.GetString("redis.password_ref"),
			TLS:         v.GetBool("redis.tls"),
			DB:          v.GetInt("redis.db"),
			DialTimeout: v.GetDuration("redis.dial_timeout"),
		},
		Robot: RobotConfig{
			Backend:     strings.ToLower(v.GetString("robot.backend")),
			BridgeURL:   v.GetString("robot.bridge_url"),
			CallTimeout: v.GetDuration("robot.call_timeout"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt.broker"),
			Topic:    v.GetString("mqtt.topic"),
			ClientID: v.GetString("mqtt.client_id"),
		},
		Party: PartyConfig{
			ServeWindow:      v.GetDuration("party.serve_window"),
			RoamDuration:     v.GetDuration("party.roam_duration"),
			IdentifyAttempts: v.GetInt("party.identify_attempts"),
			SearchRounds:     v.GetInt("party.search_rounds"),
			ToleranceWindow:  v.GetDuration("party.tolerance_window"),
			ButtonPoll:       v.GetDuration("party.button_poll"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreRedis, StoreTOML:
	default:
		return fmt.Errorf("validate config: unknown store.backend %q", c.Store.Backend)
	}
	switch c.Robot.Backend {
	case RobotBridge, RobotSim:
	default:
		return fmt.Errorf("validate config: unknown robot.backend %q", c.Robot.Backend)
	}
	if c.Party.IdentifyAttempts < 1 {
		return errors.New("validate config: party.identify_attempts must be at least 1")
	}
	if c.Party.SearchRounds < 0 {
		return errors.New("validate config: party.search_rounds must not be negative")
	}
	if c.Party.ButtonPoll <= 0 {
		return errors.New("validate config: party.button_poll must be positive")
	}
	if c.Party.ServeWindow < 0 || c.Party.RoamDuration < 0 || c.Party.ToleranceWindow < 0 {
		return errors.New("validate config: party durations must not be negative")
	}

	return nil
}

// RedisPassword returns the configured password, or resolves redis.password_ref
// through source when no literal password is set.
func (c RedisConfig) RedisPassword(ctx context.Context, source ports.CredentialSource) (string, error) {
	if c.Password != "" || c.PasswordRef == "" {
		return c.Password, nil
	}
	if source == nil {
		return "", fmt.Errorf("resolve redis password %q: no credential source", c.PasswordRef)
	}

	password, err := source.Lookup(ctx, c.PasswordRef)
	if err != nil {
		return "", fmt.Errorf("resolve redis password %q: %w", c.PasswordRef, err)
	}

	return password, nil
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
