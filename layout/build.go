package layout

import (
	"fmt"
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/glyph"
	"github.com/ByLCY/ocrsynth/renderer"
)

// 文本矩形的顶部留白：基线上方 capHeight 再加 5 像素。
const textTopPad = 5.0

// measure 调用后端测量并校验数组长度。
func (r *Run) measure(text string, font content.Font) (renderer.Measurement, error) {
	m, err := r.Backend.Measure(text, font)
	if err != nil {
		return m, fmt.Errorf("测量 %q 失败: %w", text, err)
	}
	n := utf8.RuneCountInString(text)
	if len(m.Positions) != n || len(m.Widths) != n {
		return m, fmt.Errorf("%w: %q has %d runes, %d positions, %d widths",
			ErrMeasurement, text, n, len(m.Positions), len(m.Widths))
	}
	if m.Metrics.Size <= 0 {
		m.Metrics.Size = font.Size
	}
	m.Metrics = m.Metrics.Normalize()
	return m, nil
}

// textRect 是文本在 (x, baseline) 处的占位矩形，高度为字号加 extra。
func textRect(x, baseline float64, m renderer.Measurement, fontHeight, extra float64) content.Rect {
	top := math.Floor(baseline - m.Metrics.CapHeight - textTopPad)
	return content.R(x, top, x+m.Width, top+fontHeight+extra)
}

// buildWords turns a measured string drawn at (x, baseline) into words.
// Raw character boxes span box vertically; cropped boxes come from the
// glyph rules of the family the backend actually measured with.
func buildWords(text string, font content.Font, x, baseline float64, m renderer.Measurement, box content.Rect) []*content.Word {
	if m.Family != "" {
		font.Family = m.Family
	}
	chars := make([]content.Character, 0, len(m.Positions))
	i := 0
	for _, sym := range text {
		raw := content.R(x+m.Positions[i], box.Top, x+m.Positions[i]+m.Widths[i], box.Bottom)
		chars = append(chars, content.Character{
			Symbol:  sym,
			Rect:    raw,
			Cropped: glyph.Crop(raw, sym, font, baseline, m.Metrics),
		})
		i++
	}
	return content.SplitWords(text, chars, font, baseline)
}

// drawWords 逐词绘制短语文本，并按需画下划线。
func drawWords(s renderer.Surface, words []*content.Word, paint color.Color) error {
	for _, w := range words {
		if len(w.Characters) == 0 {
			continue
		}
		x := w.Characters[0].Rect.Left
		if err := s.Text(w.Text, w.Font, x, w.Baseline, paint); err != nil {
			return err
		}
		if w.Underline {
			thickness := math.Max(1, w.Font.Size/18)
			y := w.Baseline + math.Max(2, w.Font.Size*0.1)
			s.Line(x, y, w.Rect.Right, y, thickness, nil, paint)
		}
	}
	return nil
}

// darkText 返回给定 alpha 的黑色文本颜色。
func darkText(alpha int) color.NRGBA {
	return color.NRGBA{A: uint8(alpha)}
}

func gray(v int) color.NRGBA {
	return color.NRGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 0xff}
}
