package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string `mapstructure:"app_name"`
	Port    string `mapstructure:"port"`
	Env     string `mapstructure:"app_env"`
	Debug   bool   `mapstructure:"debug"`

	// Root is the shop installation directory media paths are relative to.
	Root string `mapstructure:"magento_root"`
	// PlatformVersion selects the gallery layout and legacy column handling.
	PlatformVersion string `mapstructure:"platform_version"`
	// CryptKey protects credential fields of queued import configs.
	CryptKey string `mapstructure:"crypt_key"`

	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// StorageConfig picks the media backend: "local" or "minio".
type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	MinIO  MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// QueueConfig picks the batch transport: "redis", "kafka" or "memory".
type QueueConfig struct {
	Driver      string `mapstructure:"driver"`
	Name        string `mapstructure:"name"`
	Brokers     string `mapstructure:"brokers"`
	GroupID     string `mapstructure:"group_id"`
	Concurrency int    `mapstructure:"concurrency"`
	DrainLimit  int    `mapstructure:"drain_limit"`
}

type FetchConfig struct {
	TimeoutSeconds int   `mapstructure:"timeout_seconds"`
	MaxBytes       int64 `mapstructure:"max_bytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "importexport")
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "production")
	v.SetDefault("debug", false)
	v.SetDefault("magento_root", ".")
	v.SetDefault("platform_version", "2.4.6")
	v.SetDefault("crypt_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key_id", "")
	v.SetDefault("storage.minio.secret_access_key", "")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.bucket_name", "media")

	v.SetDefault("queue.driver", "memory")
	v.SetDefault("queue.name", "firebear_import_images")
	v.SetDefault("queue.brokers", "localhost:9092")
	v.SetDefault("queue.group_id", "importexport-images")
	v.SetDefault("queue.concurrency", 2)
	v.SetDefault("queue.drain_limit", 50)

	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.max_bytes", 32<<20)
}

// Load reads defaults, an optional YAML file and the environment into a Config.
// Nested keys map to env vars with "." replaced by "_" (QUEUE_DRIVER, STORAGE_MINIO_ENDPOINT).
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		cfg, err := Load(GetEnv("CONFIG_FILE", ""))
		if err != nil {
			panic(err)
		}
		AppConfig = cfg
	})
}
