package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/labelpress/binding"
	"github.com/ByLCY/labelpress/designer"
)

// Label 是编译后的标签描述。
type Label struct {
	Name    string
	Version string
	Params  designer.Params
	// Image 为 image 命令给出的图片路径，相对路径由调用方解析。
	Image string
	Meta  map[string]string
}

// Compile 将文档转换为设计参数，字符串中的 ${path} 以 data 展开。
func Compile(doc *Document, data any) (*Label, error) {
	if doc == nil || doc.Body == nil {
		return nil, fmt.Errorf("标签描述为空")
	}
	c := &compiler{
		data:  data,
		label: &Label{Name: doc.Name, Version: doc.Version, Params: designer.DefaultParams(), Meta: map[string]string{}},
	}
	for _, st := range doc.Body.Statements {
		if err := c.statement(st); err != nil {
			return nil, err
		}
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c.label, nil
}

type compiler struct {
	data  any
	label *Label

	lines   []string
	hasText bool
	hasQR   bool
}

func (c *compiler) statement(st *Statement) error {
	switch {
	case st.Assignment != nil:
		val, err := c.value(st.Assignment.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", st.Assignment.Pos, err)
		}
		c.label.Meta[st.Assignment.Key] = val
		return nil
	case st.Text != nil:
		c.hasText = true
		c.lines = append(c.lines, c.interpolate(string(st.Text.Value)))
		return nil
	case st.Command != nil:
		if err := c.command(st.Command); err != nil {
			return fmt.Errorf("%s: %s: %w", st.Command.Pos, st.Command.Name, err)
		}
		return nil
	}
	return nil
}

func (c *compiler) command(cmd *Command) error {
	p := &c.label.Params
	args := cmd.Args
	switch cmd.Name {
	case "meta":
		if cmd.Block == nil {
			return fmt.Errorf("缺少 { } 块")
		}
		for _, st := range cmd.Block.Statements {
			if st.Assignment == nil {
				return fmt.Errorf("meta 块只允许 key: value")
			}
			if err := c.statement(st); err != nil {
				return err
			}
		}
	case "stock":
		if len(args) == 0 {
			return fmt.Errorf("缺少标签尺寸")
		}
		p.LabelSize = c.interpolate(args[0].Value)
		if len(args) > 1 {
			switch args[1].Value {
			case "standard", "rotated":
				p.Orientation = args[1].Value
			default:
				return fmt.Errorf("未知的方向 %q", args[1].Value)
			}
		}
	case "margin":
		return options(args, map[string]func(string) error{
			"top":    floatOpt(&p.MarginTop),
			"bottom": floatOpt(&p.MarginBottom),
			"left":   floatOpt(&p.MarginLeft),
			"right":  floatOpt(&p.MarginRight),
		})
	case "font":
		rest := args
		if len(rest) >= 2 && rest[0].Quoted && rest[1].Quoted {
			p.FontFamily, p.FontStyle = c.interpolate(rest[0].Value), c.interpolate(rest[1].Value)
			rest = rest[2:]
		}
		return options(rest, map[string]func(string) error{
			"size":    intOpt(&p.FontSize),
			"spacing": intOpt(&p.LineSpacing),
			"align":   stringOpt(&p.Align),
			"color":   stringOpt(&p.PrintColor),
		})
	case "qr":
		c.hasQR = true
		rest := args
		if len(rest) > 0 && rest[0].Quoted {
			p.QRCodeData = c.interpolate(rest[0].Value)
			rest = rest[1:]
		}
		return options(rest, map[string]func(string) error{
			"size":       intOpt(&p.QRCodeSize),
			"correction": stringOpt(&p.QRCodeCorrection),
		})
	case "text":
		c.hasText = true
		for _, a := range args {
			c.lines = append(c.lines, c.interpolate(a.Value))
		}
		if cmd.Block != nil {
			for _, st := range cmd.Block.Statements {
				if st.Text == nil {
					return fmt.Errorf("text 块只允许字符串")
				}
				c.lines = append(c.lines, c.interpolate(string(st.Text.Value)))
			}
		}
	case "image":
		if len(args) == 0 {
			return fmt.Errorf("缺少图片路径")
		}
		c.label.Image = c.interpolate(args[0].Value)
	case "copies":
		if len(args) == 0 {
			return fmt.Errorf("缺少份数")
		}
		n, err := strconv.Atoi(args[0].Value)
		if err != nil {
			return fmt.Errorf("份数 %q 不是整数", args[0].Value)
		}
		p.PrintCount = n
		for _, a := range args[1:] {
			if a.Value != "cut-once" {
				return fmt.Errorf("未知选项 %q", a.Value)
			}
			p.CutOnce = true
		}
	default:
		return fmt.Errorf("未知命令")
	}
	return nil
}

func (c *compiler) finish() error {
	p := &c.label.Params
	p.Text = strings.Join(c.lines, "\n")
	switch {
	case c.label.Image != "":
		if c.hasQR || c.hasText {
			return fmt.Errorf("image 不能与 qr 或 text 同时使用")
		}
		p.PrintType = designer.PrintImage
	case c.hasQR && c.hasText:
		p.PrintType = designer.PrintQRCodeText
	case c.hasQR:
		p.PrintType = designer.PrintQRCode
	default:
		p.PrintType = designer.PrintText
	}
	return p.Validate()
}

func (c *compiler) value(v *Value) (string, error) {
	switch {
	case v == nil:
		return "", nil
	case v.String != nil:
		return c.interpolate(string(*v.String)), nil
	case v.Number != nil:
		return *v.Number, nil
	case v.Array != nil:
		parts := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			s, err := c.value(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	case v.Expr != nil:
		path := v.Expr.Path()
		val, ok := binding.Lookup(c.data, path)
		if !ok {
			return "", fmt.Errorf("数据中没有 %s", path)
		}
		return fmt.Sprint(val), nil
	}
	return "", nil
}

func (c *compiler) interpolate(s string) string {
	return binding.Interpolate(s, c.data)
}

// options 解析 "key value key value…" 形式的参数。
func options(args []*Lexeme, setters map[string]func(string) error) error {
	for i := 0; i < len(args); i += 2 {
		key := args[i].Value
		set, ok := setters[key]
		if !ok {
			return fmt.Errorf("未知选项 %q", key)
		}
		if i+1 >= len(args) {
			return fmt.Errorf("选项 %s 缺少值", key)
		}
		if err := set(args[i+1].Value); err != nil {
			return fmt.Errorf("选项 %s: %w", key, err)
		}
	}
	return nil
}

func intOpt(dst *int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
		if err != nil {
			return fmt.Errorf("%q 不是整数", s)
		}
		*dst = n
		return nil
	}
}

func floatOpt(dst *float64) func(string) error {
	return func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return fmt.Errorf("%q 不是数字", s)
		}
		*dst = f
		return nil
	}
}

func stringOpt(dst *string) func(string) error {
	return func(s string) error {
		*dst = s
		return nil
	}
}
