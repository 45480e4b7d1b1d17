package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var Validate = validator.New()

// ErrUsage marks command line mistakes that should print usage and exit 2
var ErrUsage = errors.New("usage error")

// Config is everything the service needs, resolved once at startup and
// handed to the store, the handlers and the router.
type Config struct {
	Destination    string   `yaml:"destination" validate:"required"`
	Prefix         string   `yaml:"prefix"`
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port" validate:"min=1,max=65535"`
	Naming         string   `yaml:"naming" validate:"oneof=timestamp uuid"`
	Index          string   `yaml:"index"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes" validate:"min=0"`
	EnableGzip     bool     `yaml:"gzip"`
	CORSOrigins    []string `yaml:"cors_origins" validate:"omitempty,dive,eq=*|url"`
	LogDir         string   `yaml:"log_dir"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"min=0"`
	ReadTimeout       time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout      time.Duration `yaml:"write_timeout" validate:"min=0"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"min=0"`

	PrintVersion bool `yaml:"-"`
	PrintHelp    bool `yaml:"-"`
}

// DefaultConfig returns the configuration used before any file, environment
// or flag is applied.
func DefaultConfig() *Config {
	return &Config{
		Prefix:            DefaultPrefix,
		Port:              DefaultPort,
		Naming:            NamingTimestamp,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		EnableGzip:        true,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ShutdownTimeout:   ShutdownTimeout,
	}
}

// LoadConfig resolves the configuration from, in increasing priority:
// defaults, the YAML config file, the environment (.env included) and the
// command line.
func LoadConfig(args []string) (*Config, error) {
	LoadEnv()

	cl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	configPath := GetEnv("PNGDROP_CONFIG", "")
	if cl.isSet("c", "config") {
		configPath = cl.configPath
	}
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cl.apply(cfg)

	if cfg.PrintVersion || cfg.PrintHelp {
		return cfg, nil
	}
	if len(cl.positional) > 1 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, cl.positional[1])
	}
	if cfg.Destination == "" {
		return nil, fmt.Errorf("%w: the following arguments are required: destination", ErrUsage)
	}
	cfg.Prefix = NormalizePrefix(cfg.Prefix)
	if err := Validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFile merges a YAML config file over cfg
func (cfg *Config) loadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	cfg.Destination = GetEnv("PNGDROP_DESTINATION", cfg.Destination)
	cfg.Prefix = GetEnv("PNGDROP_PREFIX", cfg.Prefix)
	cfg.Host = GetEnv("PNGDROP_HOST", cfg.Host)
	cfg.Naming = GetEnv("PNGDROP_NAMING", cfg.Naming)
	cfg.Index = GetEnv("PNGDROP_INDEX", cfg.Index)
	cfg.LogDir = GetEnv("PNGDROP_LOG_DIR", cfg.LogDir)
	if origins := GetEnvList("PNGDROP_CORS_ORIGINS"); origins != nil {
		cfg.CORSOrigins = origins
	}
	if v := GetEnv("PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := GetEnv("PNGDROP_MAX_UPLOAD", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for PNGDROP_MAX_UPLOAD: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	if v := GetEnv("ENABLE_GZIP", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for ENABLE_GZIP: %w", err)
		}
		cfg.EnableGzip = b
	}
	return nil
}

// NormalizePrefix turns a route prefix into "/segment" form without a
// trailing slash. The root prefix becomes the empty string.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
