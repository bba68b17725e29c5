package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"alto_bot/internal/assistant"
	"alto_bot/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
	envPrefix    = "APP"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Bot      BotConfig         `yaml:"bot"`
	Storage  StorageConfig     `yaml:"storage"`
	Telegram TelegramConfig    `yaml:"telegram"`
	Gemini   GeminiConfig      `yaml:"gemini"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	// DebugAuth accepts unsigned Mini App init data. Local use only.
	DebugAuth bool `yaml:"debugAuth"`
}

type BotConfig struct {
	OwnerID       string        `yaml:"ownerID"`
	OwnerContact  string        `yaml:"ownerContact"`
	Timezone      string        `yaml:"timezone"`
	LockTimeout   time.Duration `yaml:"lockTimeout"`
	CaptchaLength int           `yaml:"captchaLength"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	Debug       bool   `yaml:"debug"`
	PollTimeout int    `yaml:"pollTimeout"`
}

type GeminiConfig struct {
	APIKey            string `yaml:"apiKey"`
	Model             string `yaml:"model"`
	SystemInstruction string `yaml:"systemInstruction"`
}

var defaults = map[string]any{
	"logLevel": "info",

	"bot.ownerID":       "",
	"bot.ownerContact":  "",
	"bot.timezone":      "Asia/Jakarta",
	"bot.lockTimeout":   "10s",
	"bot.captchaLength": 6,

	"storage.driver": StorageFile,
	"storage.dir":    "./data",

	"database.host":     "localhost",
	"database.port":     "5432",
	"database.user":     "postgres",
	"database.password": "",
	"database.name":     "alto",

	"telegram.botToken":    "",
	"telegram.debug":       false,
	"telegram.pollTimeout": 60,

	"gemini.apiKey":            "",
	"gemini.model":             assistant.DefaultModel,
	"gemini.systemInstruction": assistant.DefaultSystemInstruction,

	"server.enabled":   false,
	"server.host":      "0.0.0.0",
	"server.port":      "8888",
	"server.debugAuth": false,
}

// LoadConfig reads .env, then the optional config file, then APP_* variables
// (APP_BOT_OWNERID, APP_TELEGRAM_BOTTOKEN, ...), later sources winning.
func LoadConfig(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(configPath)
		v.SetConfigType(configFormat)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the file driver")
		}
	case StoragePostgres:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if _, err := time.LoadLocation(c.Bot.Timezone); err != nil {
		return fmt.Errorf("invalid bot.timezone: %w", err)
	}
	if c.Bot.CaptchaLength <= 0 {
		return errors.New("bot.captchaLength must be positive")
	}

	return nil
}
