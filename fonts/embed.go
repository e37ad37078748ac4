package fonts

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"

	"github.com/ByLCY/ocrsynth/content"
)

// Fallback 是找不到字体时使用的内置字体族。
const Fallback = "Go"

var builtin = map[string]map[content.Style][]byte{
	"Go": {
		content.StyleRegular:                     goregular.TTF,
		content.StyleBold:                        gobold.TTF,
		content.StyleItalic:                      goitalic.TTF,
		content.StyleBold | content.StyleItalic: gobolditalic.TTF,
	},
	"Go Medium": {
		content.StyleRegular: gomedium.TTF,
		content.StyleItalic:  gomediumitalic.TTF,
	},
	"Go Mono": {
		content.StyleRegular:                     gomono.TTF,
		content.StyleBold:                        gomonobold.TTF,
		content.StyleItalic:                      gomonoitalic.TTF,
		content.StyleBold | content.StyleItalic: gomonobolditalic.TTF,
	},
	"Go Smallcaps": {
		content.StyleRegular: gosmallcaps.TTF,
		content.StyleItalic:  gosmallcapsitalic.TTF,
	},
}

// Builtin 返回内置字体族名称（已排序）。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsBuiltin reports whether family is one of the embedded Go fonts.
func IsBuiltin(family string) bool {
	_, ok := builtin[family]
	return ok
}

// Load 返回内置字体的字节数据。缺少所需样式时依次退到去掉粗体、去掉斜体、常规。
func Load(family string, style content.Style) ([]byte, error) {
	styles, ok := builtin[family]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %s", family)
	}
	for _, s := range []content.Style{style, style &^ content.StyleBold, style &^ content.StyleItalic, content.StyleRegular} {
		if data, ok := styles[s]; ok {
			return data, nil
		}
	}
	return nil, fmt.Errorf("内置字体 %s 缺少样式 %s", family, style)
}

// Find locates a system font file for family and style through the
// platform font directories and returns its bytes.
func Find(family string, style content.Style) ([]byte, string, error) {
	var lastErr error
	for _, name := range candidates(family, style) {
		path, err := findfont.Find(name)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		return data, path, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidates")
	}
	return nil, "", fmt.Errorf("系统字体 %s (%s) 未找到: %w", family, style, lastErr)
}

// Resolve 优先使用内置字体，否则查找系统字体。
func Resolve(family string, style content.Style) ([]byte, string, error) {
	if IsBuiltin(family) {
		data, err := Load(family, style)
		return data, "builtin:" + family, err
	}
	return Find(family, style)
}

// candidates 生成系统字体文件名的候选列表，例如 "Courier New Bold.ttf"、"CourierNew-Bold.ttf"。
func candidates(family string, style content.Style) []string {
	compact := strings.ReplaceAll(family, " ", "")
	var suffixes []string
	switch {
	case style.Bold() && style.Italic():
		suffixes = []string{" Bold Italic", "-BoldItalic", "bi", "z"}
	case style.Bold():
		suffixes = []string{" Bold", "-Bold", "bd", "b"}
	case style.Italic():
		suffixes = []string{" Italic", "-Italic", "i"}
	}
	var out []string
	for _, s := range suffixes {
		if strings.HasPrefix(s, " ") {
			out = append(out, family+s+".ttf")
		} else {
			out = append(out, compact+s+".ttf")
		}
	}
	out = append(out, family+".ttf", compact+".ttf", compact+"-Regular.ttf")
	return out
}
