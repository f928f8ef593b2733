// Package config 读取 labelpress 的配置：config.toml、LABELPRESS_ 前缀的环境变量以及内置默认值。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 是服务的全部配置。
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Printer PrinterConfig
	Label   LabelConfig
	Render  RenderConfig
}

// ServerConfig 为 HTTP 服务配置。
type ServerConfig struct {
	Host string
	Port int
	Mode string // gin 模式：debug、release、test
}

// Addr 返回监听地址。
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// LogConfig 为日志配置。
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr 或文件路径
}

// PrinterConfig 为打印机配置。
type PrinterConfig struct {
	Model        string
	Device       string // file:///dev/usb/lp1 或 tcp://host:9100
	Threshold    int    // 黑白阈值，百分比
	WriteTimeout time.Duration
	Retries      int
}

// LabelConfig 为标签设计器的默认值。
type LabelConfig struct {
	DefaultSize        string
	DefaultOrientation string
	DefaultFontSize    int
	DefaultQRSize      int
	DefaultLineSpacing int
	// DefaultFonts 为按优先级排列的 "family:style" 候选。
	DefaultFonts []string
	FontFolder   string
}

// RenderConfig 选择排版后端、二维码编码器与上传图片的处理方式。
type RenderConfig struct {
	TextBackend    string // canvas, gg
	QREncoder      string // skip2, yeqown, boombuler
	ImageThreshold int
	Dither         string // none, floydsteinberg, atkinson
}

// Load 读取配置。优先级从高到低：
// 1. LABELPRESS_ 前缀的环境变量（例如 LABELPRESS_PRINTER_DEVICE）
// 2. config.toml（path 非空时直接读取该文件）
// 3. 内置默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/labelpress")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix("LABELPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
			Mode: v.GetString("server.mode"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Printer: PrinterConfig{
			Model:        v.GetString("printer.model"),
			Device:       v.GetString("printer.device"),
			Threshold:    v.GetInt("printer.threshold"),
			WriteTimeout: v.GetDuration("printer.write_timeout"),
			Retries:      v.GetInt("printer.retries"),
		},
		Label: LabelConfig{
			DefaultSize:        v.GetString("label.default_size"),
			DefaultOrientation: v.GetString("label.default_orientation"),
			DefaultFontSize:    v.GetInt("label.default_font_size"),
			DefaultQRSize:      v.GetInt("label.default_qr_size"),
			DefaultLineSpacing: v.GetInt("label.default_line_spacing"),
			DefaultFonts:       v.GetStringSlice("label.default_fonts"),
			FontFolder:         v.GetString("label.font_folder"),
		},
		Render: RenderConfig{
			TextBackend:    v.GetString("render.text_backend"),
			QREncoder:      v.GetString("render.qr_encoder"),
			ImageThreshold: v.GetInt("render.image_threshold"),
			Dither:         v.GetString("render.dither"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回只包含内置默认值的配置。
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults 为空字段填入默认值。
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8013
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Printer.Model == "" {
		cfg.Printer.Model = "QL-500"
	}
	if cfg.Printer.Device == "" {
		cfg.Printer.Device = "file:///dev/usb/lp1"
	}
	if cfg.Printer.Threshold == 0 {
		cfg.Printer.Threshold = 70
	}
	if cfg.Printer.WriteTimeout == 0 {
		cfg.Printer.WriteTimeout = 10 * time.Second
	}
	if cfg.Printer.Retries == 0 {
		cfg.Printer.Retries = 3
	}

	if cfg.Label.DefaultSize == "" {
		cfg.Label.DefaultSize = "62"
	}
	if cfg.Label.DefaultOrientation == "" {
		cfg.Label.DefaultOrientation = "standard"
	}
	if cfg.Label.DefaultFontSize == 0 {
		cfg.Label.DefaultFontSize = 70
	}
	if cfg.Label.DefaultQRSize == 0 {
		cfg.Label.DefaultQRSize = 10
	}
	if cfg.Label.DefaultLineSpacing == 0 {
		cfg.Label.DefaultLineSpacing = 100
	}
	if len(cfg.Label.DefaultFonts) == 0 {
		cfg.Label.DefaultFonts = []string{"DejaVu Serif:Book", "Go:Regular"}
	}

	if cfg.Render.TextBackend == "" {
		cfg.Render.TextBackend = "canvas"
	}
	if cfg.Render.QREncoder == "" {
		cfg.Render.QREncoder = "skip2"
	}
	if cfg.Render.ImageThreshold == 0 {
		cfg.Render.ImageThreshold = 200
	}
	if cfg.Render.Dither == "" {
		cfg.Render.Dither = "none"
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port 超出范围: %d", c.Server.Port)
	}
	if c.Printer.Threshold < 1 || c.Printer.Threshold > 100 {
		return fmt.Errorf("printer.threshold 必须在 1 到 100 之间: %d", c.Printer.Threshold)
	}
	if c.Printer.Retries < 0 {
		return fmt.Errorf("printer.retries 不能为负数: %d", c.Printer.Retries)
	}
	if c.Render.ImageThreshold < 0 || c.Render.ImageThreshold > 255 {
		return fmt.Errorf("render.image_threshold 必须在 0 到 255 之间: %d", c.Render.ImageThreshold)
	}
	switch c.Label.DefaultOrientation {
	case "standard", "rotated":
	default:
		return fmt.Errorf("label.default_orientation 只能是 standard 或 rotated: %q", c.Label.DefaultOrientation)
	}
	switch c.Render.TextBackend {
	case "canvas", "gg":
	default:
		return fmt.Errorf("render.text_backend 只能是 canvas 或 gg: %q", c.Render.TextBackend)
	}
	switch c.Render.Dither {
	case "none", "floydsteinberg", "atkinson":
	default:
		return fmt.Errorf("render.dither 不支持 %q", c.Render.Dither)
	}
	return nil
}
