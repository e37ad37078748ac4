package glyph

import "strings"

// Adjust 对单个类别的公式结果做修正：先按比例缩放，再按字号比例平移。
type Adjust struct {
	TopScale    float64
	BottomScale float64
	TopShift    float64 // × Size，正值向下
	BottomShift float64 // × Size，正值向下
}

func (a Adjust) apply(top, bottom, size float64) (float64, float64) {
	if a.TopScale != 0 {
		top *= a.TopScale
	}
	if a.BottomScale != 0 {
		bottom *= a.BottomScale
	}
	return top + a.TopShift*size, bottom + a.BottomShift*size
}

// Correction 描述一个字体族的度量修正。比例字段为 0 表示不修正。
type Correction struct {
	Ascent      float64
	Descent     float64
	CapHeight   float64
	XHeight     float64
	Bottom      float64
	ItalicShift float64
	Classes     map[Class]Adjust
}

// DefaultItalicShift is the fraction of a glyph's width its box moves right
// in italic styles.
const DefaultItalicShift = 0.08

// Apply scales the metrics by the correction's non-zero factors.
func (c Correction) Apply(m Metrics) Metrics {
	scale := func(v, f float64) float64 {
		if f == 0 {
			return v
		}
		return v * f
	}
	m.Ascent = scale(m.Ascent, c.Ascent)
	m.Descent = scale(m.Descent, c.Descent)
	m.CapHeight = scale(m.CapHeight, c.CapHeight)
	m.XHeight = scale(m.XHeight, c.XHeight)
	m.Bottom = scale(m.Bottom, c.Bottom)
	return m
}

func (c Correction) italicShift() float64 {
	if c.ItalicShift != 0 {
		return c.ItalicShift
	}
	return DefaultItalicShift
}

// corrections 以规范化族名为键。等宽字体与展示字体报告的 ascent/descent 常与实际字形不符。
var corrections = map[string]Correction{
	"consolas": {
		Ascent: 0.92, Descent: 0.85,
		Classes: map[Class]Adjust{
			ClassBracket: {TopScale: 0.95},
			ClassDollar:  {TopScale: 0.95, BottomScale: 0.8},
		},
	},
	"couriernew": {
		Ascent: 0.88, Descent: 0.7, Bottom: 0.8,
		ItalicShift: 0.12,
		Classes: map[Class]Adjust{
			ClassUnderscore: {TopShift: 0.02},
			ClassBracket:    {TopScale: 0.92, BottomScale: 0.85},
		},
	},
	"lucidaconsole": {
		Ascent: 0.9, Descent: 0.75, XHeight: 1.05,
		Classes: map[Class]Adjust{
			ClassLowPunct: {BottomScale: 0.7},
		},
	},
	"ocra": {
		Ascent: 0.85, Descent: 0.6, XHeight: 1.1,
		Classes: map[Class]Adjust{
			ClassDescender: {BottomScale: 0.8},
			ClassUpperQ:    {BottomScale: 0.5},
			ClassMath:      {TopScale: 0.9},
		},
	},
	"gomono": {
		Descent: 0.9,
		Classes: map[Class]Adjust{
			ClassBracket: {BottomScale: 0.9},
		},
	},
	"impact": {
		Ascent: 0.97, CapHeight: 1.03, XHeight: 1.08, Descent: 0.8,
		ItalicShift: 0.05,
	},
	"segoescript": {
		Ascent: 1.05, Descent: 1.1,
		ItalicShift: 0.02,
		Classes: map[Class]Adjust{
			ClassCap: {TopScale: 1.05, BottomShift: 0.02},
		},
	},
	"comicsansms": {
		CapHeight: 1.02, XHeight: 1.04,
		Classes: map[Class]Adjust{
			ClassDescender: {BottomScale: 1.05},
		},
	},
}

// NormalizeFamily lower-cases a family name and strips spaces, dashes and
// style suffixes so "Courier New Bold" and "courier-new" share an entry.
func NormalizeFamily(family string) string {
	s := strings.ToLower(family)
	for _, suffix := range []string{" bold italic", " bold", " italic", " regular"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// CorrectionFor returns the correction registered for a family, or the zero
// Correction (no change) when none is known.
func CorrectionFor(family string) (Correction, bool) {
	c, ok := corrections[NormalizeFamily(family)]
	return c, ok
}

// Families lists the normalised family names that carry corrections.
func Families() []string {
	out := make([]string, 0, len(corrections))
	for name := range corrections {
		out = append(out, name)
	}
	return out
}
