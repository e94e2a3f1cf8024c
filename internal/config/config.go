package config

import (
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Storage   StorageConfig   `koanf:"storage"`
	Auth      AuthConfig      `koanf:"auth"`
	Thumbnail ThumbnailConfig `koanf:"thumbnail"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	MaxUploadMB     int64         `koanf:"max_upload_mb" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url" validate:"required"`
	MaxConns int32  `koanf:"max_conns"`
}

type StorageConfig struct {
	Endpoint      string `koanf:"endpoint"`
	Region        string `koanf:"region" validate:"required"`
	Bucket        string `koanf:"bucket" validate:"required"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	PublicURLBase string `koanf:"public_url_base" validate:"required,url"`
	PathStyle     bool   `koanf:"path_style"`
	CacheControl  string `koanf:"cache_control"`
}

type AuthConfig struct {
	AdminPassword string        `koanf:"admin_password" validate:"required"`
	Secret        string        `koanf:"secret" validate:"required"`
	LoginRate     int           `koanf:"login_rate" validate:"gte=0"`
	LoginWindow   time.Duration `koanf:"login_window"`
}

type ThumbnailConfig struct {
	Rasterizer  string  `koanf:"rasterizer" validate:"oneof=auto poppler outline"`
	Pdftoppm    string  `koanf:"pdftoppm"`
	Scale       float64 `koanf:"scale" validate:"gt=0"`
	Compression string  `koanf:"compression" validate:"oneof=default none fast best"`
	MaxPixels   int64   `koanf:"max_pixels" validate:"gt=0"`
}

func (t ThumbnailConfig) CompressionLevel() png.CompressionLevel {
	switch t.Compression {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	}
	return png.DefaultCompression
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigins:     []string{"*"},
			MaxUploadMB:     100,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Storage: StorageConfig{
			Region:       "us-east-1",
			Bucket:       "archives",
			PathStyle:    true,
			CacheControl: "max-age=3600",
		},
		Auth: AuthConfig{
			AdminPassword: "changeme",
			LoginRate:     10,
			LoginWindow:   time.Minute,
		},
		Thumbnail: ThumbnailConfig{
			Rasterizer:  "auto",
			Pdftoppm:    "pdftoppm",
			Scale:       1.5,
			Compression: "default",
			MaxPixels:   40_000_000,
		},
	}
}

// envMappings maps flat environment names to config paths.
var envMappings = map[string]string{
	"port":                  "server.port",
	"cors_origins":          "server.cors_origins",
	"max_upload_mb":         "server.max_upload_mb",
	"shutdown_timeout":      "server.shutdown_timeout",
	"database_url":          "database.url",
	"database_max_conns":    "database.max_conns",
	"storage_endpoint":      "storage.endpoint",
	"storage_region":        "storage.region",
	"storage_bucket":        "storage.bucket",
	"storage_access_key":    "storage.access_key",
	"storage_secret_key":    "storage.secret_key",
	"storage_public_url":    "storage.public_url_base",
	"storage_path_style":    "storage.path_style",
	"storage_cache_control": "storage.cache_control",
	"admin_password":        "auth.admin_password",
	"auth_secret":           "auth.secret",
	"login_rate":            "auth.login_rate",
	"login_window":          "auth.login_window",
	"thumbnail_rasterizer":  "thumbnail.rasterizer",
	"thumbnail_pdftoppm":    "thumbnail.pdftoppm",
	"thumbnail_scale":       "thumbnail.scale",
	"thumbnail_compression": "thumbnail.compression",
	"thumbnail_max_pixels":  "thumbnail.max_pixels",
}

// envKey returns "" for variables this service does not read, which koanf skips.
func envKey(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env files, then layers defaults, an optional YAML file and the
// environment, in increasing priority.
func Load() (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if v, ok := k.Get("server.cors_origins").(string); ok {
		if err := k.Set("server.cors_origins", splitList(v)); err != nil {
			return nil, fmt.Errorf("cors origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
