// Package dsl parses generation profiles:
//
//	profile Receipts v1 {
//	  canvas 210mm 297mm 100
//	  layouts { scattered: 2 table: 1 }
//	  fonts { "Go" "Go Mono" }
//	  output { format: png  characters { framing: inflate } }
//	}
//
// The grammar only knows blocks, key: value assignments, commands with
// positional arguments and bare string lines; package profile gives the
// keys their meaning.
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
	profileLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		// 数字可带长度单位：210mm、12.5pt、-3px
		{Name: "Number", Pattern: `-?\d+(?:\.\d+)?(?:pt|mm|cm|in|px|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][,;:]`},
		{Name: "Brace", Pattern: `[{}]`},
	})

	profileParser = participle.MustBuild[Document](
		participle.Lexer(profileLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root of a profile file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'profile' @Ident"`
	Version string         `parser:"@Ident"`
	Body    *Block         `parser:"@@ Newline*"`
}

// Block is a braced statement list. Statements are separated by newlines,
// semicolons or nothing at all.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是块中的一条语句。
type Statement struct {
	Assignment *Assignment    `parser:"  @@"`
	Command    *Command       `parser:"| @@"`
	Text       *StringLiteral `parser:"| @String"`
}

// Assignment is `key: value`.
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command 是以标识符开头、带若干参数与可选子块的语句，例如 `canvas 800 600` 或 `output { ... }`。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Scalar      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// ArgString 以空格连接命令参数。
func (c *Command) ArgString() string {
	texts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		texts = append(texts, a.Text())
	}
	return strings.Join(texts, " ")
}

// Scalar is a single quoted string, number or bare word such as true,
// png or inflate.
type Scalar struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the scalar as written, strings unquoted.
func (s *Scalar) Text() string {
	switch {
	case s == nil:
		return ""
	case s.String != nil:
		return string(*s.String)
	case s.Number != nil:
		return *s.Number
	case s.Ident != nil:
		return *s.Ident
	}
	return ""
}

// Quoted reports whether the scalar was written as a string literal.
func (s *Scalar) Quoted() bool { return s != nil && s.String != nil }

// Value is the right-hand side of an assignment.
type Value struct {
	Scalar *Scalar       `parser:"  @@"`
	List   *List         `parser:"| @@"`
	Object *InlineObject `parser:"| @@"`
}

// Text returns the scalar text; lists and objects yield "".
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	return v.Scalar.Text()
}

// Strings flattens a list (or a single scalar) into its texts.
func (v *Value) Strings() []string {
	switch {
	case v == nil:
		return nil
	case v.List != nil:
		out := make([]string, 0, len(v.List.Items))
		for _, item := range v.List.Items {
			out = append(out, item.Text())
		}
		return out
	case v.Scalar != nil:
		return []string{v.Scalar.Text()}
	}
	return nil
}

// List is `[a, b, c]`; commas, semicolons and newlines all separate items.
type List struct {
	Items []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject is `{ key: value, ... }` used as a value.
type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (';' | ',' | Newline+)? Newline* @@ Newline* )* )? Newline* '}'"`
}

// StringLiteral is a double-quoted string, unquoted on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) != 1 {
		return fmt.Errorf("字符串字面量需要一个值，得到 %d", len(values))
	}
	text, err := strconv.Unquote(values[0])
	if err != nil {
		return fmt.Errorf("无效的字符串 %s: %w", values[0], err)
	}
	*s = StringLiteral(text)
	return nil
}

// Parse reads a profile. filename only appears in error positions and may
// be empty.
func Parse(filename string, r io.Reader) (*Document, error) {
	return profileParser.Parse(filename, r)
}

// ParseString parses a profile held in memory.
func ParseString(input string) (*Document, error) {
	return profileParser.ParseString("", input)
}
