package filtex

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the filtex project configuration (filtex.yaml)
type Config struct {
	Dialect  string   `yaml:"dialect"`
	Rulesets []string `yaml:"rulesets"`
	Database Database `yaml:"database"`
}

// Database represents an optional database connection used by the sql
// command to run generated WHERE fragments.
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
	Table      string `yaml:"table"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	if config.Dialect != "" {
		if _, err := ParseDialect(config.Dialect); err != nil {
			return fmt.Errorf("%w: %v", ErrConfigValidation, err)
		}
	}

	for _, path := range config.Rulesets {
		if path == "" {
			return fmt.Errorf("%w: rulesets entries must not be empty", ErrConfigValidation)
		}
	}

	if config.Database.Connection != "" && config.Database.Driver == "" {
		return fmt.Errorf("%w: database.driver is required when database.connection is set", ErrConfigValidation)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Dialect:  string(DialectSQLite),
		Rulesets: []string{},
	}
}

// applyDefaults fills in defaults for missing values
func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = string(DialectSQLite)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})

	return s
}

// expandConfigEnvVars expands environment variables in config values
func expandConfigEnvVars(config *Config) {
	config.Database.Driver = expandEnvVars(config.Database.Driver)
	config.Database.Connection = expandEnvVars(config.Database.Connection)
	config.Database.Table = expandEnvVars(config.Database.Table)

	for i, path := range config.Rulesets {
		config.Rulesets[i] = expandEnvVars(path)
	}
}
