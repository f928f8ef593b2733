package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/config"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/logger"
	"github.com/ByLCY/labelpress/printer"
	"github.com/ByLCY/labelpress/server"
)

const usage = `用法: labelpress <command> [flags]

命令:
  render  将标签描述文件渲染为 PNG
  print   渲染标签描述文件并发送到打印机
  serve   启动 HTTP 服务`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = renderCmd(os.Args[2:])
	case "print":
		err = printCmd(os.Args[2:])
	case "serve":
		err = serveCmd(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s 失败: %v", os.Args[1], err)
	}
}

type commonFlags struct {
	configPath  *string
	fontFolder  *string
	systemFonts *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath:  fs.String("config", "", "配置文件路径，缺省时在 . ./config /etc/labelpress 中查找 config.toml"),
		fontFolder:  fs.String("fonts", "", "额外的字体目录"),
		systemFonts: fs.Bool("system-fonts", true, "通过 fc-list 加载系统字体"),
	}
}

func (f commonFlags) setup(ctx context.Context, debugBoxes bool) (*app, error) {
	cfg, err := config.Load(*f.configPath)
	if err != nil {
		return nil, err
	}
	if *f.fontFolder != "" {
		cfg.Label.FontFolder = *f.fontFolder
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, zl, appOptions{systemFonts: *f.systemFonts, debugBoxes: debugBoxes})
}

func renderCmd(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	common := addCommonFlags(fs)
	input := fs.String("in", "examples/shelf.label", "标签描述文件路径")
	output := fs.String("out", "output/label.png", "PNG 输出路径")
	debug := fs.String("debug", "", "布局调试 JSON 输出路径")
	boxes := fs.Bool("boxes", false, "在预览中描出位图与文本块外框")
	dataJSON := fs.String("data", "", "绑定到标签描述的 JSON 数据")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := parseData(*dataJSON)
	if err != nil {
		return err
	}
	a, err := common.setup(context.Background(), *boxes)
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	if err := a.render(*input, *output, *debug, data); err != nil {
		return err
	}
	fmt.Printf("已生成 PNG：%s\n", *output)
	return nil
}

func printCmd(args []string) error {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	common := addCommonFlags(fs)
	input := fs.String("in", "examples/shelf.label", "标签描述文件路径")
	dataJSON := fs.String("data", "", "绑定到标签描述的 JSON 数据")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := parseData(*dataJSON)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := common.setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	jobID, err := a.print(ctx, *input, data)
	if err != nil {
		return err
	}
	fmt.Printf("已发送打印作业：%s\n", jobID)
	return nil
}

func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := common.setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	model, err := printer.LookupModel(a.cfg.Printer.Model)
	if err != nil {
		return err
	}
	backend, err := printer.NewBackend(a.cfg.Printer.Device, printer.BackendOptions{
		Timeout: a.cfg.Printer.WriteTimeout,
		Retries: a.cfg.Printer.Retries,
	})
	if err != nil {
		return err
	}
	a.log.Info("打印机已配置", zap.String("model", model.Name), zap.String("device", backend.String()))

	gin.SetMode(a.cfg.Server.Mode)
	srv := server.New(server.Options{
		Config:   a.cfg,
		Designer: a.designer,
		Renderer: a.renderer,
		Model:    model,
		Backend:  backend,
		Log:      a.log,
	})
	return srv.Run(ctx)
}

// render 串联解析、布局与 PNG 输出。
func (a *app) render(inputPath, outputPath, debugPath string, data any) error {
	label, img, err := a.loadLabel(inputPath, data)
	if err != nil {
		return err
	}
	result, err := a.designer.Render(label.Params, img)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pngBytes, err := a.renderer.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PNG 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pngBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PNG 文件失败: %w", err)
	}
	return nil
}

// print 渲染标签并按份数与裁切策略发送到打印机。
func (a *app) print(ctx context.Context, inputPath string, data any) (string, error) {
	label, img, err := a.loadLabel(inputPath, data)
	if err != nil {
		return "", err
	}
	result, err := a.designer.Render(label.Params, img)
	if err != nil {
		return "", fmt.Errorf("布局计算失败: %w", err)
	}
	directive, err := a.designer.Directive(label.Params)
	if err != nil {
		return "", err
	}
	q, err := a.queue()
	if err != nil {
		return "", err
	}
	if err := q.Add(result, directive, label.Params.PrintCount, label.Params.CutOnce); err != nil {
		return "", err
	}
	return q.Process(ctx)
}

func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
