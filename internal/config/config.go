package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("backendctl version %s, commit %s, built at %s", version, commit, date)
}

const (
	envPrefix   = "BACKEND_CLIENT"
	dotEnvFile  = "configs/.env"
	systemDir   = "/etc/backend-client"
	localConfig = "./configs"
)

// ErrUnknownEnvironment is returned when the selected environment has no config file.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment selects which config file is read.
type Environment string

const (
	EnvironmentUnknown     Environment = "unknown"
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// ConfigFilename returns the config file name (without extension) for the environment.
func (e Environment) ConfigFilename() (string, bool) {
	switch e {
	case EnvironmentDevelopment:
		return "Config-Dev", true
	case EnvironmentProduction:
		return "Config-Prod", true
	default:
		return "", false
	}
}

// TransportKind names the HTTP client used to reach the backend.
type TransportKind string

const (
	TransportHTTP  TransportKind = "http"
	TransportResty TransportKind = "resty"
)

type Config struct {
	Environment Environment   `mapstructure:"environment"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Backend     BackendConfig `mapstructure:"backend"`
	Catalog     CatalogConfig `mapstructure:"catalog"`

	provider *Provider
}

type BackendConfig struct {
	BaseURL   string        `mapstructure:"baseURL"`
	Transport TransportKind `mapstructure:"transport"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

type CatalogConfig struct {
	OpenAPIFile string `mapstructure:"openapi_file"`
}

// Provider exposes the loaded settings by dotted key path.
func (c *Config) Provider() *Provider {
	return c.provider
}

// InitFlags registers the config flags on fs (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("environment", string(EnvironmentDevelopment), "Environment (development|production)")
	fs.String("config-dir", "", "Additional directory to search for the environment config file")
	fs.String("base-url", "", "Override backend.baseURL")
	fs.String("transport", "", "Override backend.transport (http|resty)")
	fs.String("log-level", "", "Override logging.level")
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"environment": "environment",
	"base-url":    "backend.baseURL",
	"transport":   "backend.transport",
	"log-level":   "logging.level",
}

// Load reads configuration from defaults, configs/.env, the environment's
// config file, BACKEND_CLIENT_* environment variables and flags, in that
// order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(dotEnvFile)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// backend.baseURL has no default, so viper only sees it in the environment once bound.
	if err := v.BindEnv("backend.baseURL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	env := Environment(strings.ToLower(v.GetString("environment")))
	filename, ok := env.ConfigFilename()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	if fs != nil {
		if dir, err := fs.GetString("config-dir"); err == nil && dir != "" {
			v.AddConfigPath(dir)
		}
	}
	v.AddConfigPath(".")
	v.AddConfigPath(localConfig)
	v.AddConfigPath(systemDir)

	if err := v.ReadInConfig(); err != nil {
		// The base URL may still come from the environment or a flag.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", filename, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Environment = env

	switch cfg.Backend.Transport {
	case TransportHTTP, TransportResty:
	default:
		return nil, fmt.Errorf("invalid backend.transport %q (must be http or resty)", cfg.Backend.Transport)
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("invalid backend.timeout %s (must be positive)", cfg.Backend.Timeout)
	}

	cfg.provider = &Provider{v: v}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", string(EnvironmentDevelopment))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("backend.transport", string(TransportHTTP))
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("catalog.openapi_file", "")
}
