package server

import (
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/designer"
	"github.com/ByLCY/labelpress/labels"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/logger"
	"github.com/ByLCY/labelpress/printer"
	"github.com/ByLCY/labelpress/renderer"
)

var lineSpacings = []int{100, 150, 200, 250, 300}

type labelSize struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Round bool   `json:"round"`
	Red   bool   `json:"red"`
	// 可打印区域，毫米
	WidthMM  float64 `json:"width_mm"`
	LengthMM float64 `json:"length_mm"`
}

func labelSizes() []labelSize {
	all := labels.All()
	out := make([]labelSize, 0, len(all))
	for _, l := range all {
		w, h := l.PrintableMM()
		out = append(out, labelSize{ID: l.ID, Name: l.Name, Kind: l.Kind.String(), Round: l.Round(), Red: l.TwoColor, WidthMM: w, LengthMM: h})
	}
	return out
}

func (s *Server) handleIndex(c *gin.Context) {
	lc := s.cfg.Label
	c.JSON(http.StatusOK, gin.H{
		"font_family_names":    s.designer.Catalog.Families(),
		"label_sizes":          labelSizes(),
		"default_label_size":   lc.DefaultSize,
		"default_font_size":    lc.DefaultFontSize,
		"default_orientation":  lc.DefaultOrientation,
		"default_qr_size":      lc.DefaultQRSize,
		"default_font_family":  s.designer.DefaultFont.Family,
		"default_font_style":   s.designer.DefaultFont.Style,
		"line_spacings":        lineSpacings,
		"default_line_spacing": lc.DefaultLineSpacing,
		"default_dpi":          layout.PrinterDPI,
	})
}

func (s *Server) handleLabelSizes(c *gin.Context) {
	c.JSON(http.StatusOK, labelSizes())
}

func (s *Server) handleFonts(c *gin.Context) {
	c.JSON(http.StatusOK, s.designer.Catalog.Families())
}

func (s *Server) handleFontStyles(c *gin.Context) {
	family := c.DefaultQuery("font", c.PostForm("font"))
	if family == "" {
		family = s.designer.DefaultFont.Family
	}
	styles, ok := s.designer.Catalog.Styles(family)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到字体 %q", family)})
		return
	}
	c.JSON(http.StatusOK, styles)
}

func (s *Server) handlePreview(c *gin.Context) {
	res, _, err := s.buildLabel(c)
	if err != nil {
		logger.FromContext(c, s.log).Warn("生成预览失败", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	var out renderer.Renderer = s.renderer
	contentType := "image/png"
	if c.DefaultQuery("return_format", c.PostForm("return_format")) == "base64" {
		out = renderer.Base64{Renderer: s.renderer}
		contentType = "text/plain"
	}
	data, err := out.Render(res)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) handlePrint(c *gin.Context) {
	log := logger.FromContext(c, s.log)
	res, params, err := s.buildLabel(c)
	if err != nil {
		log.Error("生成标签失败", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	directive, err := s.designer.Directive(params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	queue := printer.NewQueue(s.model, s.backend, s.cfg.Printer.Threshold, log)
	if err := queue.Add(res, directive, params.PrintCount, params.CutOnce); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	jobID, err := queue.Process(c.Request.Context())
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, printer.ErrTransport) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error(), "job_id": jobID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job_id": jobID})
}

// buildLabel 绑定表单参数、读取可选的上传图片并完成布局。
func (s *Server) buildLabel(c *gin.Context) (*layout.Result, designer.Params, error) {
	var params designer.Params
	if err := c.ShouldBindWith(&params, binding.Form); err != nil {
		return nil, params, fmt.Errorf("%w: %w", designer.ErrInvalidParam, err)
	}

	var img image.Image
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, params, fmt.Errorf("读取上传文件失败: %w", err)
		}
		defer f.Close()
		if img, err = s.designer.DecodeUpload(fh.Filename, f); err != nil {
			return nil, params, err
		}
	}

	res, err := s.designer.Render(params, img)
	return res, params, err
}

func statusFor(err error) int {
	var (
		encErr     *layout.EncodingError
		missing    *layout.MissingFontError
		unknownErr *layout.UnknownLabelSizeError
	)
	switch {
	case errors.As(err, &encErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &missing), errors.As(err, &unknownErr), errors.Is(err, designer.ErrInvalidParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
