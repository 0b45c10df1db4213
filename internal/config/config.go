package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL      string `yaml:"ttl"`
		Timezone string `yaml:"timezone"`
	} `yaml:"quiz"`
	Storage struct {
		Driver          string `yaml:"driver"`
		Bucket          string `yaml:"bucket"`
		CDNDomain       string `yaml:"cdn_domain"`
		CredentialsFile string `yaml:"credentials_file"`
		PublicBaseURL   string `yaml:"public_base_url"`
		CleanupTimeout  string `yaml:"cleanup_timeout"`
	} `yaml:"storage"`
	Upload struct {
		MaxBytes     int64    `yaml:"max_bytes"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`
	Leaderboard struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"leaderboard"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
}

// Load reads YAML config from path, applies environment overrides and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a config with no backing services, suitable for local runs and tests.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"DATABASE_URL", &c.Postgres.URL},
		{"REDIS_ADDR", &c.Redis.Addr},
		{"REDIS_PASSWORD", &c.Redis.Password},
		{"JWT_SECRET", &c.Auth.JWTSecret},
		{"GCS_BUCKET_NAME", &c.Storage.Bucket},
		{"CDN_DOMAIN", &c.Storage.CDNDomain},
		{"GCS_CREDENTIALS_FILE", &c.Storage.CredentialsFile},
		{"LOG_MODE", &c.Log.Mode},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Upload.MaxBytes = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Quiz.Timezone == "" {
		c.Quiz.Timezone = "Asia/Jakarta"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 5 << 20
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "application/pdf"}
	}
	if c.Leaderboard.DefaultLimit <= 0 {
		c.Leaderboard.DefaultLimit = 10
	}
	if c.Leaderboard.MaxLimit <= 0 {
		c.Leaderboard.MaxLimit = 100
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
}

// Location resolves the quiz time zone; quiz days roll over at local midnight.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Quiz.Timezone)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
