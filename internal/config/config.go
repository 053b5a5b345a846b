package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VOCALIS_BASE_URL.
const EnvPrefix = "VOCALIS"

// DefaultClasses are offered when no class list is configured.
var DefaultClasses = []string{"Amphibian", "Bird", "Fish", "Insect", "Mammal", "Reptile"}

// Config contains runtime options for the lookup client.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Classes     []string      `mapstructure:"classes"`
	Workers     int           `mapstructure:"workers"`
	Batch       BatchConfig   `mapstructure:"batch"`
	Log         LogConfig     `mapstructure:"log"`
}

// BatchConfig tunes batch lookups.
type BatchConfig struct {
	// Rate is the maximum number of lookups started per second; 0 disables
	// throttling.
	Rate float64 `mapstructure:"rate"`
}

// LogConfig selects log level, format, and an optional rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	defaultWorkers := runtime.NumCPU()
	if defaultWorkers < 2 {
		defaultWorkers = 2
	}

	v.SetDefault("base_url", "http://127.0.0.1:5000")
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("classes", DefaultClasses)
	v.SetDefault("workers", defaultWorkers)
	v.SetDefault("batch.rate", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}

// RegisterFlags adds the persistent configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "config file (default is ./vocalis.yaml)")
	fs.String("base-url", "", "lookup service base URL")
	fs.Duration("http-timeout", 0, "HTTP request timeout (0 disables)")
	fs.StringSlice("classes", nil, "comma-separated classes offered by the form")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "console log format (console or json)")
	fs.String("log-file", "", "write JSON logs to this rotating file")
}

var flagKeys = map[string]string{
	"base-url":     "base_url",
	"http-timeout": "http_timeout",
	"classes":      "classes",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

// BindFlags makes explicitly set flags override file and environment values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for flagName, key := range flagKeys {
		f := fs.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", flagName, err)
		}
	}
	return nil
}

// Load reads configFile (or ./vocalis.yaml when empty and present) and
// VOCALIS_* environment variables into a Config.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vocalis")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.HTTPTimeout < 0 {
		c.HTTPTimeout = 0
	}
	if c.Batch.Rate < 0 {
		c.Batch.Rate = 0
	}

	classes := make([]string, 0, len(c.Classes))
	seen := make(map[string]struct{}, len(c.Classes))
	for _, class := range c.Classes {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		if _, ok := seen[class]; ok {
			continue
		}
		seen[class] = struct{}{}
		classes = append(classes, class)
	}
	c.Classes = classes
}
