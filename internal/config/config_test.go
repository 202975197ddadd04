package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSigningConfigURLs(t *testing.T) {
	cfg := SigningConfig{
		BaseURL:      "https://sign.example.com/api/",
		AuthPath:     "/auth",
		KeyPath:      "key/",
		DocumentPath: "document",
	}

	assert.Equal(t, "https://sign.example.com/api/auth", cfg.AuthURL())
	assert.Equal(t, "https://sign.example.com/api/key", cfg.KeyURL())
	assert.Equal(t, "https://sign.example.com/api/document", cfg.DocumentURL())
}

func TestNormalizeConvertsSecondsAndFixesZoom(t *testing.T) {
	cfg := &Config{
		Signing: SigningConfig{RequestTimeout: 30, ContentTimeout: 30, ActionTimeout: 60},
		Notice:  NoticeConfig{TTL: 5},
		Render:  RenderConfig{MinZoom: 2, MaxZoom: 1, InstanceTimeout: 30},
	}

	cfg.normalize()

	assert.Equal(t, 30*time.Second, cfg.Signing.ContentTimeout)
	assert.Equal(t, 60*time.Second, cfg.Signing.ActionTimeout)
	assert.Equal(t, 5*time.Second, cfg.Notice.TTL)
	assert.Equal(t, 2.0, cfg.Render.MaxZoom)
	assert.Equal(t, 0.1, cfg.Render.ZoomStep)
	assert.Equal(t, 1.0, cfg.Render.DefaultZoom)
	assert.Equal(t, 1, cfg.Render.Workers)
	assert.Equal(t, 30*time.Second, cfg.Render.InstanceTimeout)
}

func TestOriginsIncludeGatewayAndDropWildcard(t *testing.T) {
	app := AppConfig{
		Host:           "127.0.0.1",
		Port:           8787,
		AllowedOrigins: []string{"http://LOCALHOST:5173/", "*", " ", "http://localhost:5173"},
	}

	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:8787"}, app.Origins())
}

func TestUploadMaxSizeBytes(t *testing.T) {
	u := UploadConfig{MaxSizeMB: 2}
	assert.Equal(t, int64(2*1024*1024), u.MaxSizeBytes())
}
