package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config is the apilevel CLI configuration.
type Config struct {
	CacheDir   string       `mapstructure:"cache_dir"`
	Descriptor string       `mapstructure:"descriptor"`
	Database   string       `mapstructure:"database"`
	Mmap       bool         `mapstructure:"mmap"`
	Fallback   bool         `mapstructure:"fallback"`
	Log        LogConfig    `mapstructure:"log"`
	Remote     RemoteConfig `mapstructure:"remote"`
}

// LogConfig configures diagnostics written to stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RemoteConfig selects the blob store prebuilt knowledge bases are
// downloaded from and published to.
type RemoteConfig struct {
	Kind      string `mapstructure:"kind"` // "", "local", "s3" or "minio"
	Name      string `mapstructure:"name"` // blob name of the knowledge base
	Path      string `mapstructure:"path"` // root directory for kind "local"
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
}

// Load reads apilevel.yaml from the working directory, or the file at path
// when path is not empty. Every key can be overridden with an APILEVEL_
// environment variable, for example APILEVEL_CACHE_DIR or
// APILEVEL_REMOTE_BUCKET.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("cache_dir", "")
	v.SetDefault("descriptor", "")
	v.SetDefault("database", "api-versions.kb")
	v.SetDefault("mmap", true)
	v.SetDefault("fallback", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("remote.kind", "")
	v.SetDefault("remote.name", "")
	v.SetDefault("remote.path", "")
	v.SetDefault("remote.bucket", "")
	v.SetDefault("remote.prefix", "")
	v.SetDefault("remote.region", "")
	v.SetDefault("remote.endpoint", "")
	v.SetDefault("remote.access_key", "")
	v.SetDefault("remote.secret_key", "")
	v.SetDefault("remote.secure", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("apilevel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("APILEVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("database name cannot be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch c.Remote.Kind {
	case "":
	case "local":
		if c.Remote.Path == "" {
			return errors.New("remote.path is required for a local remote")
		}
	case "s3":
		if c.Remote.Bucket == "" {
			return errors.New("remote.bucket is required for an s3 remote")
		}
	case "minio":
		if c.Remote.Bucket == "" || c.Remote.Endpoint == "" {
			return errors.New("remote.bucket and remote.endpoint are required for a minio remote")
		}
	default:
		return fmt.Errorf("unknown remote kind %q", c.Remote.Kind)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}
