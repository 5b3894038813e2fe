package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Device   DeviceConfig   `mapstructure:"device"`
	Copy     CopyConfig     `mapstructure:"copy"`
	Multiply MultiplyConfig `mapstructure:"multiply"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

type DeviceConfig struct {
	Index      int  `mapstructure:"index"`
	Validation bool `mapstructure:"validation"`
}

type CopyConfig struct {
	Elements int    `mapstructure:"elements"`
	Payload  string `mapstructure:"payload"`
	Queue    string `mapstructure:"queue"`
}

type MultiplyConfig struct {
	Elements int    `mapstructure:"elements"`
	Factor   uint32 `mapstructure:"factor"`
}

type OutputConfig struct {
	// Show is how many leading elements are printed, all of them when negative
	Show int `mapstructure:"show"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// Payloads the copy command knows how to generate
const (
	PayloadSequence = "sequence"
	PayloadIdentity = "identity"
)

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "vkcompute",
		},
		Device: DeviceConfig{
			Index:      0,
			Validation: false,
		},
		Copy: CopyConfig{
			Elements: 1024,
			Payload:  PayloadSequence,
			Queue:    "transfer",
		},
		Multiply: MultiplyConfig{
			Elements: 65536,
			Factor:   12,
		},
		Output: OutputConfig{
			Show: 16,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "",
			Console: true,
		},
	}
}

// Load loads configuration from file, environment, and defaults
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".vkcompute"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VKCOMPUTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Device.Index < 0 {
		return errors.New("device.index must not be negative")
	}

	if c.Copy.Elements <= 0 {
		return errors.New("copy.elements must be positive")
	}

	validPayloads := []string{PayloadSequence, PayloadIdentity}
	if !contains(validPayloads, c.Copy.Payload) {
		return fmt.Errorf("copy.payload must be one of: %v", validPayloads)
	}

	validQueues := []string{"compute", "graphics", "transfer"}
	if !contains(validQueues, strings.ToLower(c.Copy.Queue)) {
		return fmt.Errorf("copy.queue must be one of: %v", validQueues)
	}

	if c.Multiply.Elements <= 0 {
		return errors.New("multiply.elements must be positive")
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("app.name", cfg.App.Name)

	v.SetDefault("device.index", cfg.Device.Index)
	v.SetDefault("device.validation", cfg.Device.Validation)

	v.SetDefault("copy.elements", cfg.Copy.Elements)
	v.SetDefault("copy.payload", cfg.Copy.Payload)
	v.SetDefault("copy.queue", cfg.Copy.Queue)

	v.SetDefault("multiply.elements", cfg.Multiply.Elements)
	v.SetDefault("multiply.factor", cfg.Multiply.Factor)

	v.SetDefault("output.show", cfg.Output.Show)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
