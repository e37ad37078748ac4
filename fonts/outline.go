package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Ratios are vertical glyph extents as fractions of the em size.
type Ratios struct {
	Ascent    float64
	Descent   float64
	CapHeight float64
	XHeight   float64
	Bottom    float64
}

// Outline 包装 sfnt 字体，用于字形覆盖检查与字形轮廓度量。
type Outline struct {
	mu   sync.Mutex
	font *sfnt.Font
	buf  sfnt.Buffer

	ratiosOnce sync.Once
	ratios     Ratios
}

// ParseOutline parses TrueType/OpenType data.
func ParseOutline(data []byte) (*Outline, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体轮廓失败: %w", err)
	}
	return &Outline{font: f}, nil
}

// Has reports whether the font maps r to a real glyph.
func (o *Outline) Has(r rune) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	gi, err := o.font.GlyphIndex(&o.buf, r)
	return err == nil && gi != 0
}

// HasAll reports whether every non-space rune of s has a glyph.
func (o *Outline) HasAll(s string) bool {
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !o.Has(r) {
			return false
		}
	}
	return true
}

// Ratios 从代表性字形的轮廓包围盒推导度量比例，结果缓存。
func (o *Outline) Ratios() Ratios {
	o.ratiosOnce.Do(func() {
		o.ratios = Ratios{
			Ascent:    o.maxAbove("dhkl"),
			Descent:   o.maxBelow("gpqy"),
			CapHeight: o.maxAbove("HIE"),
			XHeight:   o.maxAbove("xzv"),
			Bottom:    o.maxBelow("([|"),
		}
	})
	return o.ratios
}

func (o *Outline) maxAbove(samples string) float64 {
	best := 0.0
	for _, r := range samples {
		if top, _, ok := o.extent(r); ok && top > best {
			best = top
		}
	}
	return best
}

func (o *Outline) maxBelow(samples string) float64 {
	best := 0.0
	for _, r := range samples {
		if _, bottom, ok := o.extent(r); ok && bottom > best {
			best = bottom
		}
	}
	return best
}

// extent returns how far the glyph reaches above and below the baseline,
// in em fractions.
func (o *Outline) extent(r rune) (above, below float64, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	gi, err := o.font.GlyphIndex(&o.buf, r)
	if err != nil || gi == 0 {
		return 0, 0, false
	}
	upem := fixed.Int26_6(o.font.UnitsPerEm())
	segments, err := o.font.LoadGlyph(&o.buf, gi, upem, nil)
	if err != nil || len(segments) == 0 {
		return 0, 0, false
	}
	b := segments.Bounds()
	return float64(-b.Min.Y) / float64(upem), float64(b.Max.Y) / float64(upem), true
}
