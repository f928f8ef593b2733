// Package dsl 解析标签描述文件（label <Name> <Version> { … }）。
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		// 标签尺寸标识可以以数字开头，例如 62red、29x90。
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*|\d+[A-Za-z][A-Za-z0-9_-]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)%?`},
		{Name: "Symbol", Pattern: `[][(),.=+*/<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document 是标签描述文件的语法树根节点。
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'label' @Ident"`
	Version string         `parser:"@Ident"`
	Body    *Block         `parser:"@@ Newline*"`
}

// Block 是花括号内的语句列表，语句之间用换行或分号分隔。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值、命令或裸字符串三者之一。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 形如 key: value，写入 Label.Meta。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command 是 stock、font、text 等指令，参数到行尾为止，可带一个块。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral 是块中的裸字符串，按行追加到标签文本。
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是赋值右侧的值：字符串、数字、数组或数据路径。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Array  *ArrayValue    `parser:"| @@"`
	Expr   *PathExpr      `parser:"| @@"`
}

// ArrayValue 对应 [a, b, c]。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// PathExpr 是数据路径，例如 item.tags[0]。
type PathExpr struct {
	Head string      `parser:"@Ident"`
	Tail []*PathPart `parser:"@@*"`
}

// PathPart 是路径中的 .field 或 [index]。
type PathPart struct {
	Field *string `parser:"  '.' @Ident"`
	Index *string `parser:"| '[' @Number ']'"`
}

// Path 还原为 binding 使用的路径写法。
func (e *PathExpr) Path() string {
	var b strings.Builder
	b.WriteString(e.Head)
	for _, part := range e.Tail {
		switch {
		case part.Field != nil:
			b.WriteString("." + *part.Field)
		case part.Index != nil:
			b.WriteString("[" + *part.Index + "]")
		}
	}
	return b.String()
}

// Lexeme 是命令的一个参数。带引号的字符串在捕获时去掉引号，Quoted 记录这一点。
type Lexeme struct {
	Value  string
	Raw    string
	Quoted bool
	Pos    lexer.Position
}

// Parse 实现 participle.Parseable：遇到换行、花括号或分号时参数列表结束。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if endOfArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	*l = Lexeme{Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == stringTokenType {
		val, err := strconv.Unquote(tok.Value)
		if err != nil {
			return fmt.Errorf("%s: 字符串格式错误: %w", tok.Pos, err)
		}
		l.Value, l.Quoted = val, true
	}
	return nil
}

// StringLiteral 在捕获时按 Go 语法去掉引号。
type StringLiteral string

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串为空")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析标签描述。
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString 解析字符串形式的标签描述。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, lbraceTokenType, rbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	}
	return false
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("词法规则 %s 未定义", name))
	}
	return tt
}
