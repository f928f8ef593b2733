// Package server 提供标签设计与打印的 HTTP API。
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/config"
	"github.com/ByLCY/labelpress/designer"
	"github.com/ByLCY/labelpress/logger"
	"github.com/ByLCY/labelpress/printer"
	"github.com/ByLCY/labelpress/renderer"
)

// Options 汇总服务依赖。
type Options struct {
	Config   *config.Config
	Designer *designer.Designer
	Renderer renderer.Renderer
	Model    printer.Model
	Backend  printer.Backend
	Log      *zap.Logger
}

// Server 封装 gin 引擎。
type Server struct {
	cfg      *config.Config
	designer *designer.Designer
	renderer renderer.Renderer
	model    printer.Model
	backend  printer.Backend
	log      *zap.Logger
	engine   *gin.Engine
}

// New 创建服务并注册路由。
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:      cfg,
		designer: opts.Designer,
		renderer: opts.Renderer,
		model:    opts.Model,
		backend:  opts.Backend,
		log:      log,
	}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log))
	s.routes(engine)
	s.engine = engine
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/labeldesigner")
	})
	r.GET("/labeldesigner", s.handleIndex)

	api := r.Group("/api")
	api.GET("/label-sizes", s.handleLabelSizes)
	api.GET("/fonts", s.handleFonts)
	api.Match([]string{http.MethodGet, http.MethodPost}, "/font/styles", s.handleFontStyles)
	api.Match([]string{http.MethodGet, http.MethodPost}, "/preview", s.handlePreview)
	api.Match([]string{http.MethodGet, http.MethodPost}, "/print", s.handlePrint)
}

// Handler 返回 http.Handler，便于测试与嵌入。
func (s *Server) Handler() http.Handler { return s.engine }

// Run 监听配置的地址，ctx 结束时优雅关闭。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP 服务启动", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP 服务异常退出: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("HTTP 服务关闭")
		return srv.Shutdown(shutdownCtx)
	}
}
