package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/fonts"
	"github.com/ByLCY/ocrsynth/glyph"
	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/renderer"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.renderer")
}

// Renderer measures and draws text via github.com/tdewolff/canvas.
type Renderer struct {
	families []string

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	fallbackKey  string
}

var _ renderer.Backend = (*Renderer)(nil)

type fontFamilyEntry struct {
	name    string // 实际加载的字体族，回退后为 fonts.Fallback
	family  *canvas.FontFamily
	style   canvas.FontStyle
	outline *fonts.Outline
	source  string
}

// Options configures the canvas renderer.
type Options struct {
	// Families 是可供随机选择的字体族；为空时使用全部内置字体。
	Families []string
}

// NewRenderer creates a renderer over the built-in Go fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer limited to the given families.
// Families that cannot be loaded are dropped with a trace message (no
// fallback is applied here); if none remain, the built-in catalog is used.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for _, name := range opts.Families {
		if name == "" {
			continue
		}
		entry, err := loadFamily(name, content.StyleRegular)
		if err != nil {
			tracer().Infof("skip font family %q: %v", name, err)
			continue
		}
		r.fontFamilies[fontCacheKey(content.Font{Family: name})] = entry
		r.families = append(r.families, name)
	}
	if len(r.families) == 0 {
		r.families = fonts.Builtin()
	}
	return r
}

// Families implements renderer.Backend.
func (r *Renderer) Families() []string {
	return append([]string(nil), r.families...)
}

// Measure 实现 renderer.Backend：逐 rune 给出位置与宽度，使用前缀宽度以包含字距。
// 约定：像素即 canvas 的毫米单位，字号在边界处做 px→pt 换算。
// Measurement.Family 是实际使用的字体族（样式缺失时可能已回退）。
func (r *Renderer) Measure(text string, font content.Font) (renderer.Measurement, error) {
	entry, err := r.ensureFontFamily(font)
	if err != nil {
		return renderer.Measurement{}, err
	}
	face := entry.family.Face(toPt(font.Size), color.Black, entry.style, canvas.FontNormal)

	runes := []rune(text)
	m := renderer.Measurement{
		Family:    entry.name,
		Positions: make([]float64, len(runes)),
		Widths:    make([]float64, len(runes)),
	}
	prev := 0.0
	for i := range runes {
		next := face.TextWidth(string(runes[:i+1]))
		m.Positions[i] = prev
		m.Widths[i] = math.Max(next-prev, 0)
		prev = next
	}
	m.Width = prev
	m.Metrics = r.metrics(entry, face, font.Size)
	return m, nil
}

// metrics 以字形轮廓比例为主，缺失时退回 canvas 报告的字体度量。
func (r *Renderer) metrics(entry *fontFamilyEntry, face *canvas.FontFace, size float64) glyph.Metrics {
	fm := face.Metrics()
	m := glyph.Metrics{
		Size:      size,
		Ascent:    fm.Ascent,
		Descent:   math.Abs(fm.Descent),
		CapHeight: fm.CapHeight,
		XHeight:   fm.XHeight,
	}
	if entry.outline != nil {
		ratios := entry.outline.Ratios()
		set := func(dst *float64, ratio float64) {
			if ratio > 0 {
				*dst = ratio * size
			}
		}
		set(&m.Ascent, ratios.Ascent)
		set(&m.Descent, ratios.Descent)
		set(&m.CapHeight, ratios.CapHeight)
		set(&m.XHeight, ratios.XHeight)
		set(&m.Bottom, ratios.Bottom)
	}
	return m
}

// ContainsGlyphs implements renderer.Backend. Fonts whose outlines could not
// be parsed are assumed to cover everything.
func (r *Renderer) ContainsGlyphs(text string, font content.Font) bool {
	entry, err := r.ensureFontFamily(font)
	if err != nil {
		return false
	}
	if entry.outline == nil {
		return true
	}
	return entry.outline.HasAll(text)
}

// NewSurface implements renderer.Backend.
func (r *Renderer) NewSurface(width, height int) renderer.Surface {
	return newSurface(r, width, height)
}

func (r *Renderer) fontFace(font content.Font, col color.Color) (*canvas.FontFace, error) {
	entry, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(toPt(font.Size), col, entry.style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font content.Font) (*fontFamilyEntry, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}

	familyName := font.Family
	if familyName == "" {
		familyName = fonts.Fallback
	}
	entry, err := loadFamily(familyName, font.Style)
	if err != nil {
		fallback, fbErr := r.fallback(font.Style)
		if fbErr != nil {
			return nil, err
		}
		tracer().Debugf("font %s falls back to %s: %v", key, fonts.Fallback, err)
		r.fontFamilies[key] = fallback
		return fallback, nil
	}
	r.fontFamilies[key] = entry
	return entry, nil
}

func loadFamily(name string, style content.Style) (*fontFamilyEntry, error) {
	data, source, err := fonts.Resolve(name, style)
	if err != nil {
		return nil, err
	}
	cs := canvasStyle(style)
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, cs); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", source, err)
	}
	outline, err := fonts.ParseOutline(data)
	if err != nil {
		tracer().Debugf("no outline for %s: %v", source, err)
		outline = nil
	}
	return &fontFamilyEntry{name: name, family: family, style: cs, outline: outline, source: source}, nil
}

// fallback must be called with fontMu held.
func (r *Renderer) fallback(style content.Style) (*fontFamilyEntry, error) {
	key := fontCacheKey(content.Font{Family: fonts.Fallback, Style: style})
	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}
	entry, err := loadFamily(fonts.Fallback, style)
	if err != nil {
		return nil, err
	}
	r.fontFamilies[key] = entry
	return entry, nil
}

func canvasStyle(style content.Style) canvas.FontStyle {
	result := canvas.FontRegular
	if style.Bold() {
		result = canvas.FontBold
	}
	if style.Italic() {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font content.Font) string {
	return fmt.Sprintf("%s|%s", font.Family, font.Style)
}

// toPt 将像素（canvas 毫米）转换为点(pt)。
func toPt(px float64) float64 { return layout.FontPt(px) }
