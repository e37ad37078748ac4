package glyph

import (
	"math"

	"github.com/ByLCY/ocrsynth/content"
)

// Crop 根据字形类别与字体度量计算字符的紧致矩形（不做像素扫描）。
// 结果只依赖入参，同样的输入总是得到同样的矩形。
func Crop(raw content.Rect, symbol rune, font content.Font, baseline float64, m Metrics) content.Rect {
	m = m.Normalize()
	corr, _ := CorrectionFor(font.Family)
	m = corr.Apply(m)

	class := Classify(symbol)
	rule := RuleFor(class)
	top := rule.Top.Eval(m)
	bottom := rule.Bottom.Eval(m)
	if adj, ok := corr.Classes[class]; ok {
		top, bottom = adj.apply(top, bottom, m.Size)
	}

	// 垂直方向限制在字体度量给出的范围内
	top = clamp(top, -m.Ascent, m.Descent)
	bottom = clamp(bottom, -m.Ascent, m.Descent)
	if bottom < top {
		top, bottom = bottom, top
	}

	left, right := raw.Left, raw.Right
	if font.Style.Italic() {
		shift := raw.Width() * corr.italicShift()
		left += shift
		right += shift
	}
	return content.Rect{
		Left:   left,
		Top:    baseline + top,
		Right:  right,
		Bottom: baseline + bottom,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
