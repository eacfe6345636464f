// Package config loads settings for the controller and prompt pool binaries.
//
// Values come from an optional YAML file (CONFIG_PATH) and are then overridden
// by environment variables. Binaries load .env with godotenv before calling Load.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store kinds for the prompt pool
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	NATS       NATSConfig       `yaml:"nats"`
	PromptPool PromptPoolConfig `yaml:"prompt_pool"`
	Database   DatabaseConfig   `yaml:"database"`
}

type ControllerConfig struct {
	Port                string        `yaml:"port"`
	PromptGatewayURL    string        `yaml:"prompt_gateway_url"`
	DefaultTimerSeconds int           `yaml:"default_timer_seconds"`
	GatewayTimeout      time.Duration `yaml:"gateway_timeout"`
	InitialPromptCount  int           `yaml:"initial_prompt_count"`
}

// NATSConfig enables JetStream event publication when URL is set
type NATSConfig struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type PromptPoolConfig struct {
	Port            string   `yaml:"port"`
	Store           string   `yaml:"store"`
	FilePath        string   `yaml:"file_path"`
	TimerSeconds    int      `yaml:"timer_seconds"`
	MinPromptLength int      `yaml:"min_prompt_length"`
	MaxPromptLength int      `yaml:"max_prompt_length"`
	BasePrompts     []string `yaml:"base_prompts"`
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the Postgres connection URL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Controller: ControllerConfig{
			Port:                "8080",
			PromptGatewayURL:    "http://localhost:8081",
			DefaultTimerSeconds: 5,
			GatewayTimeout:      5 * time.Second,
		},
		NATS: NATSConfig{
			Stream:        "QUIZ_EVENTS",
			SubjectPrefix: "quiz.events",
		},
		PromptPool: PromptPoolConfig{
			Port:            "8081",
			Store:           StoreFile,
			FilePath:        "data/custom-prompts.json",
			TimerSeconds:    5,
			MinPromptLength: 4,
			MaxPromptLength: 160,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "teamquiz",
			SSLMode:  "disable",
		},
	}
}

// Load reads CONFIG_PATH (if set) over the defaults and applies env overrides
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	c := &cfg.Controller
	c.Port = getEnv("PORT", c.Port)
	c.PromptGatewayURL = getEnv("PROMPT_GATEWAY_URL", c.PromptGatewayURL)
	c.DefaultTimerSeconds = getEnvAsInt("DEFAULT_TIMER_SECONDS", c.DefaultTimerSeconds)
	c.GatewayTimeout = getEnvAsDuration("GATEWAY_TIMEOUT", c.GatewayTimeout)
	c.InitialPromptCount = getEnvAsInt("INITIAL_PROMPT_COUNT", c.InitialPromptCount)

	n := &cfg.NATS
	n.URL = getEnv("NATS_URL", n.URL)
	n.Stream = getEnv("NATS_STREAM", n.Stream)
	n.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", n.SubjectPrefix)

	p := &cfg.PromptPool
	p.Port = getEnv("PROMPT_POOL_PORT", p.Port)
	p.Store = strings.ToLower(getEnv("PROMPT_STORE", p.Store))
	p.FilePath = getEnv("PROMPT_FILE", p.FilePath)
	p.TimerSeconds = getEnvAsInt("PROMPT_TIMER_SECONDS", p.TimerSeconds)

	d := &cfg.Database
	d.Host = getEnv("DB_HOST", d.Host)
	d.Port = getEnvAsInt("DB_PORT", d.Port)
	d.User = getEnv("DB_USER", d.User)
	d.Password = getEnv("DB_PASSWORD", d.Password)
	d.Database = getEnv("DB_NAME", d.Database)
	d.SSLMode = getEnv("DB_SSLMODE", d.SSLMode)
}

// Validate rejects settings the binaries cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.Controller.DefaultTimerSeconds < 0 {
		errs = append(errs, errors.New("controller.default_timer_seconds must not be negative"))
	}
	if c.Controller.GatewayTimeout <= 0 {
		errs = append(errs, errors.New("controller.gateway_timeout must be positive"))
	}
	switch c.PromptPool.Store {
	case StoreFile, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("prompt_pool.store %q is not one of %s, %s", c.PromptPool.Store, StoreFile, StorePostgres))
	}
	if c.PromptPool.MinPromptLength <= 0 || c.PromptPool.MaxPromptLength < c.PromptPool.MinPromptLength {
		errs = append(errs, fmt.Errorf("prompt_pool length bounds [%d,%d] are invalid",
			c.PromptPool.MinPromptLength, c.PromptPool.MaxPromptLength))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
