package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/resolve"
)

const (
	maxWalkDepth = 25
	envPrefix    = "SOQLGEN"
)

// Config represents the soqlgen configuration from soqlgen.yaml.
type Config struct {
	Schema  SchemaConfig  `mapstructure:"schema" yaml:"schema" json:"schema"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine" json:"engine"`
	History HistoryConfig `mapstructure:"history" yaml:"history" json:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
}

// SchemaConfig locates the schema. An empty path selects the built-in
// sample CRM schema.
type SchemaConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// EngineConfig holds the generation settings.
type EngineConfig struct {
	DefaultObject    string `mapstructure:"default_object" yaml:"default_object" json:"default_object"`
	MaxHops          int    `mapstructure:"max_hops" yaml:"max_hops" json:"max_hops"`
	ConversionPolicy string `mapstructure:"conversion_policy" yaml:"conversion_policy" json:"conversion_policy"`
	DefaultQuantity  int    `mapstructure:"default_quantity" yaml:"default_quantity" json:"default_quantity"`
}

// HistoryConfig controls the query history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults. Flags are applied by the caller.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}

	return &cfg, configPath, nil
}

// DefaultConfig returns the configuration used when no file, environment
// variable or flag sets anything.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultObject:    "Account",
			MaxHops:          5,
			ConversionPolicy: string(resolve.PolicySubject),
			DefaultQuantity:  engine.DefaultQuantity,
		},
		History: HistoryConfig{
			Path: filepath.Join(".soqlgen", "history.db"),
		},
		Log: LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("schema.path", d.Schema.Path)

	v.SetDefault("engine.default_object", d.Engine.DefaultObject)
	v.SetDefault("engine.max_hops", d.Engine.MaxHops)
	v.SetDefault("engine.conversion_policy", d.Engine.ConversionPolicy)
	v.SetDefault("engine.default_quantity", d.Engine.DefaultQuantity)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)

	v.SetDefault("log.level", d.Log.Level)
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for soqlgen.yaml or soqlgen.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"soqlgen.yaml", "soqlgen.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break // Stop at repo root
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil // No config found, use defaults
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := resolve.ParsePolicy(c.Engine.ConversionPolicy); err != nil {
		return fmt.Errorf("engine.conversion_policy: %w", err)
	}
	if c.Engine.MaxHops < 0 {
		return fmt.Errorf("engine.max_hops must be non-negative, got %d", c.Engine.MaxHops)
	}
	if c.Engine.DefaultQuantity < 0 {
		return fmt.Errorf("engine.default_quantity must be non-negative, got %d", c.Engine.DefaultQuantity)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// EngineOptions converts the engine section into engine options.
func (c *Config) EngineOptions() []engine.Option {
	// Validate has already accepted the policy.
	policy, _ := resolve.ParsePolicy(c.Engine.ConversionPolicy)

	opts := []engine.Option{
		engine.WithConversionPolicy(policy),
		engine.WithMaxHops(c.Engine.MaxHops),
		engine.WithDefaultQuantity(c.Engine.DefaultQuantity),
	}
	if c.Engine.DefaultObject != "" {
		opts = append(opts, engine.WithDefaultObject(c.Engine.DefaultObject))
	}
	return opts
}

// LogLevel returns the configured level, lowered to debug when verbose.
func (c *Config) LogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
