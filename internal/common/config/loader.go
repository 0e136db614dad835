// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like TEAMTAILOR_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// overrideFromEnv keeps the flat env names used by the original deployment
// working even when viper's dotted keys are not set.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("TEAMTAILOR_API_KEY"); v != "" && cfg.Teamtailor.APIKey == "" {
		cfg.Teamtailor.APIKey = v
	}
	if v := os.Getenv("TEAMTAILOR_NOTE_USER_ID"); v != "" && cfg.Teamtailor.NoteUserID == "1" {
		cfg.Teamtailor.NoteUserID = v
	}
	if v := os.Getenv("TEAMTAILOR_COMPANY_ID"); v != "" && cfg.Teamtailor.CompanyID == "" {
		cfg.Teamtailor.CompanyID = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" && cfg.Webhook.Secret == "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" && cfg.Slack.WebhookURL == "" {
		cfg.Slack.WebhookURL = v
	}
}
