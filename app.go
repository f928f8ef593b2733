package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/bitmap"
	"github.com/ByLCY/labelpress/config"
	"github.com/ByLCY/labelpress/designer"
	"github.com/ByLCY/labelpress/dsl"
	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/printer"
	"github.com/ByLCY/labelpress/qr"
	"github.com/ByLCY/labelpress/renderer"
	canvasrenderer "github.com/ByLCY/labelpress/renderer/canvas"
	ggrenderer "github.com/ByLCY/labelpress/renderer/gg"
)

// textRenderer 同时负责排版与 PNG 输出。
type textRenderer interface {
	layout.Typesetter
	renderer.Renderer
}

// app 汇总各子命令共用的依赖。
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	designer *designer.Designer
	renderer textRenderer
}

type appOptions struct {
	systemFonts bool
	debugBoxes  bool
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, opts appOptions) (*app, error) {
	var r textRenderer
	switch cfg.Render.TextBackend {
	case "gg":
		r = ggrenderer.NewRenderer()
	default:
		r = canvasrenderer.NewRenderer()
	}
	enc, err := qr.New(cfg.Render.QREncoder)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, cfg.Label.FontFolder, opts.systemFonts, log)
	if err != nil {
		return nil, err
	}
	candidates := make([]layout.FontResource, 0, len(cfg.Label.DefaultFonts))
	for _, c := range cfg.Label.DefaultFonts {
		candidates = append(candidates, fonts.ParseCandidate(c))
	}
	def, ok := catalog.PickDefault(candidates)
	if !ok {
		log.Warn("配置的默认字体均不可用，改用目录中的第一个字体",
			zap.Strings("candidates", cfg.Label.DefaultFonts),
			zap.String("family", def.Family),
			zap.String("style", def.Style),
		)
	}

	return &app{
		cfg: cfg,
		log: log,
		designer: &designer.Designer{
			Catalog:     catalog,
			DefaultFont: def,
			Build: layout.BuildOptions{
				Typesetter: r,
				Encoder:    enc,
				Debug:      layout.DebugOptions{Boxes: opts.debugBoxes},
			},
			Upload: bitmap.Options{Threshold: cfg.Render.ImageThreshold, Dither: cfg.Render.Dither},
			Log:    log,
		},
		renderer: r,
	}, nil
}

// loadCatalog 合并系统字体、字体目录与内置字体。fontconfig 不可用时只记录警告。
func loadCatalog(ctx context.Context, folder string, system bool, log *zap.Logger) (*fonts.Catalog, error) {
	var sets [][]fonts.Entry
	if system {
		entries, err := fonts.ScanSystem(ctx)
		if err != nil {
			log.Warn("枚举系统字体失败", zap.Error(err))
		}
		sets = append(sets, entries)
	}
	if folder != "" {
		entries, err := fonts.ScanFolder(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("读取字体目录失败: %w", err)
		}
		sets = append(sets, entries)
	}
	sets = append(sets, fonts.Embedded())
	catalog := fonts.NewCatalog(sets...)
	log.Info("字体目录已加载", zap.Int("families", len(catalog.Families())))
	return catalog, nil
}

// queue 按配置创建打印队列。
func (a *app) queue() (*printer.Queue, error) {
	model, err := printer.LookupModel(a.cfg.Printer.Model)
	if err != nil {
		return nil, err
	}
	backend, err := printer.NewBackend(a.cfg.Printer.Device, printer.BackendOptions{
		Timeout: a.cfg.Printer.WriteTimeout,
		Retries: a.cfg.Printer.Retries,
	})
	if err != nil {
		return nil, err
	}
	return printer.NewQueue(model, backend, a.cfg.Printer.Threshold, a.log), nil
}

// loadLabel 解析并编译标签描述文件，image 命令中的相对路径相对于描述文件所在目录。
func (a *app) loadLabel(inputPath string, data any) (*dsl.Label, image.Image, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开标签描述文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, nil, fmt.Errorf("解析标签描述失败: %w", err)
	}
	label, err := dsl.Compile(doc, data)
	if err != nil {
		return nil, nil, fmt.Errorf("编译标签描述失败: %w", err)
	}
	if label.Image == "" {
		return label, nil, nil
	}

	path := label.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(inputPath), path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开图片 %s: %w", path, err)
	}
	defer f.Close()
	img, err := a.designer.DecodeUpload(path, f)
	if err != nil {
		return nil, nil, err
	}
	return label, img, nil
}
