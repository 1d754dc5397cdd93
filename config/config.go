// Package config loads typed configuration from the environment, optionally
// seeded from an env file. Defaults mirror the reference deployment: router
// on 10019, customer-data agent on 10020, support agent on 10021.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Router configures the orchestrating process.
type Router struct {
	GoogleAPIKey    string        `envconfig:"GOOGLE_API_KEY"`
	Model           string        `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	CustomerDataURL string        `envconfig:"CUSTOMER_DATA_URL" default:"http://localhost:10020"`
	SupportURL      string        `envconfig:"SUPPORT_URL" default:"http://localhost:10021"`
	CallTimeout     time.Duration `envconfig:"CALL_TIMEOUT" default:"240s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"INFO"`
}

// CustomerDataAgent configures the customer-data specialist server.
type CustomerDataAgent struct {
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	Model        string `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	Host         string `envconfig:"CUSTOMER_DATA_HOST" default:"localhost"`
	Port         int    `envconfig:"CUSTOMER_DATA_PORT" default:"10020"`
	DBPath       string `envconfig:"DB_PATH" default:"support.db"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"INFO"`
}

// SupportAgent configures the support specialist server.
type SupportAgent struct {
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	Model        string `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	Host         string `envconfig:"SUPPORT_HOST" default:"localhost"`
	Port         int    `envconfig:"SUPPORT_PORT" default:"10021"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"INFO"`
}

// MustNew loads a config of type T or panics. Intended for main functions.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New loads a config of type T from the environment. When ENV_FILE names a
// file (or a ./.env exists), its settings are exported into the environment
// first so envconfig picks them up.
func New[T any](prefix string) (*T, error) {
	if path := strings.TrimSpace(os.Getenv("ENV_FILE")); path != "" {
		if err := exportEnvironment(path); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

// exportEnvironment reads the file through viper and pushes its settings
// into the process environment. Already-set variables win over the file.
func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range v.AllSettings() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
