package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Signing  SigningConfig  `mapstructure:"signing"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Render   RenderConfig   `mapstructure:"render"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Notice   NoticeConfig   `mapstructure:"notice"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name           string   `mapstructure:"name"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Origins returns the browser origins the gateway answers, its own included.
// Entries are lower-cased without a trailing slash.
func (a *AppConfig) Origins() []string {
	seen := map[string]bool{}
	var origins []string
	add := func(origin string) {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		if origin == "" || origin == "*" || seen[origin] {
			return
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	for _, origin := range a.AllowedOrigins {
		add(origin)
	}
	add(fmt.Sprintf("http://%s:%d", a.Host, a.Port))
	return origins
}

// SigningConfig points at the remote signing/verification service.
// Path segments are joined onto BaseURL.
type SigningConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	AuthPath       string        `mapstructure:"auth_path"`
	KeyPath        string        `mapstructure:"key_path"`
	DocumentPath   string        `mapstructure:"document_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // seconds in yaml
	ContentTimeout time.Duration `mapstructure:"content_timeout"` // seconds in yaml
	ActionTimeout  time.Duration `mapstructure:"action_timeout"`  // seconds in yaml
}

// AuthURL returns the base URL of the identity endpoints
func (s *SigningConfig) AuthURL() string {
	return joinURL(s.BaseURL, s.AuthPath)
}

// KeyURL returns the base URL of the key material endpoints
func (s *SigningConfig) KeyURL() string {
	return joinURL(s.BaseURL, s.KeyPath)
}

// DocumentURL returns the base URL of the document endpoints
func (s *SigningConfig) DocumentURL() string {
	return joinURL(s.BaseURL, s.DocumentPath)
}

type SessionConfig struct {
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RenderConfig bounds the zoom range of the render surface
type RenderConfig struct {
	MinZoom     float64 `mapstructure:"min_zoom"`
	MaxZoom     float64 `mapstructure:"max_zoom"`
	ZoomStep    float64 `mapstructure:"zoom_step"`
	DefaultZoom float64 `mapstructure:"default_zoom"`
	// Workers is the number of rasterizer instances kept in the pool
	Workers         int           `mapstructure:"workers"`
	InstanceTimeout time.Duration `mapstructure:"instance_timeout"` // seconds in yaml
}

type UploadConfig struct {
	MaxSizeMB         int      `mapstructure:"max_size_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// MaxSizeBytes returns the upload cap in bytes
func (u *UploadConfig) MaxSizeBytes() int64 {
	return int64(u.MaxSizeMB) * 1024 * 1024
}

type NoticeConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // seconds in yaml
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "docsign-client")
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 8787)
	v.SetDefault("app.env", "development")
	v.SetDefault("app.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("signing.auth_path", "auth")
	v.SetDefault("signing.key_path", "key")
	v.SetDefault("signing.document_path", "document")
	v.SetDefault("signing.request_timeout", 30)
	v.SetDefault("signing.content_timeout", 30)
	v.SetDefault("signing.action_timeout", 60)

	v.SetDefault("session.key_prefix", "docsign:session:")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("render.min_zoom", 0.5)
	v.SetDefault("render.max_zoom", 3.0)
	v.SetDefault("render.zoom_step", 0.1)
	v.SetDefault("render.default_zoom", 1.0)
	v.SetDefault("render.workers", 2)
	v.SetDefault("render.instance_timeout", 30)

	v.SetDefault("upload.max_size_mb", 20)
	v.SetDefault("upload.allowed_extensions", []string{"pdf"})

	v.SetDefault("notice.ttl", 5)

	v.SetDefault("logging.level", "info")
}

// normalize converts second-based values to durations and fills gaps left by
// partial config files.
func (c *Config) normalize() {
	c.Signing.RequestTimeout = c.Signing.RequestTimeout * time.Second
	c.Signing.ContentTimeout = c.Signing.ContentTimeout * time.Second
	c.Signing.ActionTimeout = c.Signing.ActionTimeout * time.Second
	c.Notice.TTL = c.Notice.TTL * time.Second
	c.Render.InstanceTimeout = c.Render.InstanceTimeout * time.Second

	if c.Render.MinZoom <= 0 {
		c.Render.MinZoom = 0.5
	}
	if c.Render.MaxZoom < c.Render.MinZoom {
		c.Render.MaxZoom = c.Render.MinZoom
	}
	if c.Render.ZoomStep <= 0 {
		c.Render.ZoomStep = 0.1
	}
	if c.Render.DefaultZoom <= 0 {
		c.Render.DefaultZoom = 1.0
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = 1
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func joinURL(base, segment string) string {
	base = strings.TrimRight(base, "/")
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return base
	}
	return base + "/" + segment
}
