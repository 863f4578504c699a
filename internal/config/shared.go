package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

type Config struct {
	Storage struct {
		Provider   string `mapstructure:"provider"`
		KeyID      string `mapstructure:"key_id"`
		AppKey     string `mapstructure:"app_key"`
		Endpoint   string `mapstructure:"endpoint"`
		Region     string `mapstructure:"region"`
		Bucket     string `mapstructure:"bucket"`
		UseSSL     bool   `mapstructure:"use_ssl"`
		LocalRoot  string `mapstructure:"local_root"`
		PublicBase string `mapstructure:"public_base"`
	} `mapstructure:"storage"`
	Server struct {
		Addr          string `mapstructure:"addr"`
		MetricsPort   string `mapstructure:"metrics_port"`
		LogLevel      string `mapstructure:"log_level"`
		MaxUploadSize string `mapstructure:"max_upload_size"`
		PresignTTL    int    `mapstructure:"presign_ttl_seconds"`
	} `mapstructure:"server"`
	Browser struct {
		HideSentinels bool `mapstructure:"hide_sentinels"`
	} `mapstructure:"browser"`
}

// MaxUploadBytes parses server.max_upload_size ("100MB", "1GiB", ...).
func (c *Config) MaxUploadBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Server.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("server.max_upload_size %q: %w", c.Server.MaxUploadSize, err)
	}
	return int64(n), nil
}

func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.Server.PresignTTL) * time.Second
}

// Validate checks the settings the selected provider cannot start without.
func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case "s3", "minio":
		if c.Storage.KeyID == "" {
			return fmt.Errorf("storage.key_id is missing (BROWSER_STORAGE_KEY_ID)")
		}
		if c.Storage.Endpoint == "" && c.Storage.Provider == "minio" {
			return fmt.Errorf("storage.endpoint is missing (BROWSER_STORAGE_ENDPOINT)")
		}
	case "local":
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("storage.local_root is missing (BROWSER_STORAGE_LOCAL_ROOT)")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage provider %q", c.Storage.Provider)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is missing (BROWSER_STORAGE_BUCKET)")
	}
	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}
	if c.Server.PresignTTL <= 0 {
		return fmt.Errorf("server.presign_ttl_seconds must be positive")
	}
	return nil
}

func setup(v *viper.Viper) {
	v.SetEnvPrefix("BROWSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register keys
	v.BindEnv("storage.provider")
	v.BindEnv("storage.key_id")
	v.BindEnv("storage.app_key")
	v.BindEnv("storage.endpoint")
	v.BindEnv("storage.region")
	v.BindEnv("storage.bucket")
	v.BindEnv("storage.use_ssl")
	v.BindEnv("storage.local_root")
	v.BindEnv("storage.public_base")
	v.BindEnv("server.addr")
	v.BindEnv("server.metrics_port")
	v.BindEnv("server.log_level")
	v.BindEnv("server.max_upload_size")
	v.BindEnv("server.presign_ttl_seconds")
	v.BindEnv("browser.hide_sentinels")

	// Defaults
	v.SetDefault("storage.provider", "minio")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "haohan")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.local_root", "./data")
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.metrics_port", ":9091")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_upload_size", "100MB")
	v.SetDefault("server.presign_ttl_seconds", 3600)
	v.SetDefault("browser.hide_sentinels", true)
}

// Read builds a Config from the environment and an optional config.yaml.
func Read(v *viper.Viper) (*Config, error) {
	setup(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load() *Config {
	cfg, err := Read(viper.GetViper())
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	return cfg
}
