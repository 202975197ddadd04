package testutil

import (
	"time"

	"docsign-client/internal/config"
)

// Config returns a configuration pointing at baseURL with the production defaults
func Config(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:           "docsign-client",
			Host:           "127.0.0.1",
			Port:           8787,
			Env:            "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Signing: config.SigningConfig{
			BaseURL:        baseURL,
			AuthPath:       "auth",
			KeyPath:        "key",
			DocumentPath:   "document",
			RequestTimeout: 5 * time.Second,
			ContentTimeout: 30 * time.Second,
			ActionTimeout:  60 * time.Second,
		},
		Session: config.SessionConfig{KeyPrefix: "test:session:"},
		Render: config.RenderConfig{
			MinZoom:         0.5,
			MaxZoom:         3.0,
			ZoomStep:        0.1,
			DefaultZoom:     1.0,
			Workers:         1,
			InstanceTimeout: 30 * time.Second,
		},
		Upload:  config.UploadConfig{MaxSizeMB: 20, AllowedExtensions: []string{"pdf"}},
		Notice:  config.NoticeConfig{TTL: 5 * time.Second},
		Logging: config.LoggingConfig{Level: "debug"},
	}
}
