package glyph

// Metrics 是字体的垂直度量（像素），均为相对基线的正值。
//   - Ascent: 高小写字母顶部（l、k、h）到基线的距离
//   - Descent: 下伸部（g、y、p）底部到基线的距离
//   - CapHeight: 大写字母与数字的高度
//   - XHeight: 小写字母 x 的高度
//   - Bottom: 括号、竖线等符号在基线下方的延伸
type Metrics struct {
	Size      float64 `json:"size"`
	Ascent    float64 `json:"ascent"`
	Descent   float64 `json:"descent"`
	CapHeight float64 `json:"capHeight"`
	XHeight   float64 `json:"xHeight"`
	Bottom    float64 `json:"bottom"`
}

// Fallback fractions of the em size used when a backend reports zero.
const (
	fallbackAscent    = 0.75
	fallbackDescent   = 0.22
	fallbackCapHeight = 0.70
	fallbackXHeight   = 0.50
	fallbackBottom    = 0.20
)

// Normalize fills zero fields. Size is recovered from the first non-zero
// metric when missing, then every other zero field becomes a fixed
// fraction of Size.
func (m Metrics) Normalize() Metrics {
	if m.Size <= 0 {
		switch {
		case m.CapHeight > 0:
			m.Size = m.CapHeight / fallbackCapHeight
		case m.XHeight > 0:
			m.Size = m.XHeight / fallbackXHeight
		case m.Ascent > 0:
			m.Size = m.Ascent / fallbackAscent
		default:
			m.Size = 1
		}
	}
	if m.CapHeight <= 0 {
		m.CapHeight = m.Size * fallbackCapHeight
	}
	if m.XHeight <= 0 {
		m.XHeight = m.Size * fallbackXHeight
	}
	if m.Ascent <= 0 {
		m.Ascent = m.Size * fallbackAscent
	}
	if m.Ascent < m.CapHeight {
		m.Ascent = m.CapHeight
	}
	if m.Descent <= 0 {
		m.Descent = m.Size * fallbackDescent
	}
	if m.Bottom <= 0 {
		m.Bottom = m.Size * fallbackBottom
	}
	if m.Bottom > m.Descent {
		m.Bottom = m.Descent
	}
	return m
}

// Formula is a signed offset from the baseline (positive is downward),
// linear in the font metrics.
type Formula struct {
	Ascent    float64
	Descent   float64
	CapHeight float64
	XHeight   float64
	Bottom    float64
	Size      float64
}

// Eval computes the offset for m.
func (f Formula) Eval(m Metrics) float64 {
	return f.Ascent*m.Ascent +
		f.Descent*m.Descent +
		f.CapHeight*m.CapHeight +
		f.XHeight*m.XHeight +
		f.Bottom*m.Bottom +
		f.Size*m.Size
}

// Rule holds the top and bottom formulas of a class.
type Rule struct {
	Top    Formula
	Bottom Formula
}

var onBaseline = Formula{}

// rules 是默认的类别公式表；字体修正在此基础上叠加。逗号与分号的尾巴下伸到基线以下。
var rules = map[Class]Rule{
	ClassXHeight:    {Top: Formula{XHeight: -1}, Bottom: onBaseline},
	ClassAscender:   {Top: Formula{Ascent: -1}, Bottom: onBaseline},
	ClassDescender:  {Top: Formula{XHeight: -1}, Bottom: Formula{Descent: 0.9}},
	ClassLowerJ:     {Top: Formula{Ascent: -0.95}, Bottom: Formula{Descent: 0.9}},
	ClassCap:        {Top: Formula{CapHeight: -1}, Bottom: onBaseline},
	ClassUpperJ:     {Top: Formula{CapHeight: -1}, Bottom: Formula{Descent: 0.1}},
	ClassUpperQ:     {Top: Formula{CapHeight: -1}, Bottom: Formula{Descent: 0.45}},
	ClassDigit:      {Top: Formula{CapHeight: -1}, Bottom: onBaseline},
	ClassSlash:      {Top: Formula{Ascent: -1}, Bottom: Formula{Bottom: 0.6}},
	ClassBracket:    {Top: Formula{Ascent: -1.02}, Bottom: Formula{Bottom: 1}},
	ClassUnderscore: {Top: onBaseline, Bottom: Formula{Descent: 0.3}},
	ClassDollar:     {Top: Formula{CapHeight: -1.1}, Bottom: Formula{Bottom: 0.6}},
	ClassMath:       {Top: Formula{CapHeight: -0.8}, Bottom: Formula{CapHeight: -0.1}},
	ClassDash:       {Top: Formula{XHeight: -0.62}, Bottom: Formula{XHeight: -0.38}},
	ClassLowPunct:   {Top: Formula{XHeight: -0.25}, Bottom: Formula{Descent: 0.4}},
	ClassMidPunct:   {Top: Formula{XHeight: -1}, Bottom: Formula{Descent: 0.4}},
	ClassHighPunct:  {Top: Formula{CapHeight: -1}, Bottom: Formula{CapHeight: -0.55}},
	ClassAsterisk:   {Top: Formula{CapHeight: -0.76}, Bottom: Formula{CapHeight: -0.2}},
	ClassComma:      {Top: Formula{XHeight: -0.25}, Bottom: Formula{Descent: 1}},
	ClassSemicolon:  {Top: Formula{XHeight: -1}, Bottom: Formula{Descent: 1}},
	ClassDefault:    {Top: Formula{CapHeight: -1}, Bottom: Formula{Descent: 0.1}},
}

// RuleFor returns the default rule of a class.
func RuleFor(c Class) Rule {
	if r, ok := rules[c]; ok {
		return r
	}
	return rules[ClassDefault]
}
