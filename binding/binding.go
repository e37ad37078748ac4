// Package binding fills ${path} placeholders in output-name templates.
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Placeholder 是模板中的一个 ${path|%fmt} 占位符。
type Placeholder struct {
	Path   string
	Format string // 以 % 开头的 fmt 动词，可为空
}

// Placeholders lists the placeholders of text in order of appearance.
func Placeholders(text string) []Placeholder {
	var out []Placeholder
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		if p, ok := parsePlaceholder(groups[1]); ok {
			out = append(out, p)
		}
	}
	return out
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值；
// ${path|%05d} 形式按给定的 fmt 动词格式化。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data map[string]any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		p, ok := parsePlaceholder(match[2 : len(match)-1])
		if !ok {
			return match
		}
		val, ok := Lookup(data, p.Path)
		if !ok {
			return match
		}
		if p.Format != "" {
			return fmt.Sprintf(p.Format, val)
		}
		return fmt.Sprint(val)
	})
}

// Lookup resolves a dotted path through nested maps.
func Lookup(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

func parsePlaceholder(expr string) (Placeholder, bool) {
	path, format, found := strings.Cut(expr, "|")
	p := Placeholder{Path: strings.TrimSpace(path)}
	if p.Path == "" {
		return p, false
	}
	if found {
		if format = strings.TrimSpace(format); strings.HasPrefix(format, "%") {
			p.Format = format
		}
	}
	return p, true
}
