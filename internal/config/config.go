// Package config provides Viper-based hierarchical configuration and the
// logging setup derived from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var envOnce sync.Once

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Output struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		LogsDir      string `mapstructure:"logs_dir" yaml:"logs_dir"`
		WriteRawText bool   `mapstructure:"write_raw_text" yaml:"write_raw_text"`
		CSV          bool   `mapstructure:"csv" yaml:"csv"`
	} `mapstructure:"output" yaml:"output"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig loads configuration from defaults, an optional config
// file and EXTRASJSON_-prefixed environment variables, in that order.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.extrasjson")
	v.AddConfigPath(".extrasjson")
	v.AddConfigPath(".")

	v.SetEnvPrefix("EXTRASJSON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars, the file is optional.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.directory", "output")
	v.SetDefault("output.logs_dir", "logs")
	v.SetDefault("output.write_raw_text", false)
	v.SetDefault("output.csv", false)

	v.SetDefault("rules.file", filepath.Join("rules", "counterparty_rules.yaml"))
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	if config.Output.Directory == "" {
		return fmt.Errorf("output.directory must not be empty")
	}
	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger per the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// LoadEnv loads environment variables from a .env file if one exists in
// the current or parent directory.
func LoadEnv() {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("Warning: error loading %s: %v\n", envFile, err)
		}
	})
}

// GetEnv retrieves an environment variable with a fallback value.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
