package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:8013", cfg.Server.Addr())
	assert.Equal(t, "QL-500", cfg.Printer.Model)
	assert.Equal(t, "file:///dev/usb/lp1", cfg.Printer.Device)
	assert.Equal(t, 70, cfg.Printer.Threshold)
	assert.Equal(t, "62", cfg.Label.DefaultSize)
	assert.Equal(t, 70, cfg.Label.DefaultFontSize)
	assert.Equal(t, []string{"DejaVu Serif:Book", "Go:Regular"}, cfg.Label.DefaultFonts)
	assert.Equal(t, "canvas", cfg.Render.TextBackend)
	assert.NoError(t, cfg.validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelpress.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9000

[printer]
model = "QL-820NWB"
device = "tcp://10.0.0.5"
write_timeout = "3s"

[label]
default_size = "62red"
default_fonts = ["Noto Sans:Regular"]

[render]
qr_encoder = "yeqown"
`), 0o644))

	t.Setenv("LABELPRESS_PRINTER_THRESHOLD", "55")
	t.Setenv("LABELPRESS_SERVER_HOST", "127.0.0.1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "QL-820NWB", cfg.Printer.Model)
	assert.Equal(t, "tcp://10.0.0.5", cfg.Printer.Device)
	assert.Equal(t, 3*time.Second, cfg.Printer.WriteTimeout)
	assert.Equal(t, 55, cfg.Printer.Threshold)
	assert.Equal(t, "62red", cfg.Label.DefaultSize)
	assert.Equal(t, []string{"Noto Sans:Regular"}, cfg.Label.DefaultFonts)
	assert.Equal(t, "yeqown", cfg.Render.QREncoder)
	// 未配置的字段保持默认值
	assert.Equal(t, 3, cfg.Printer.Retries)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":        func(c *Config) { c.Server.Port = 70000 },
		"threshold":   func(c *Config) { c.Printer.Threshold = 150 },
		"orientation": func(c *Config) { c.Label.DefaultOrientation = "upside-down" },
		"backend":     func(c *Config) { c.Render.TextBackend = "cairo" },
		"dither":      func(c *Config) { c.Render.Dither = "ordered" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.validate(), name)
	}
}
