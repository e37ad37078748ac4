package layout

import (
	"image/color"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/renderer"
)

// addLines 添加 1–4 条水平线与 1–3 条竖线，每条线都作为内容区域提交，
// 随后放置的文本会避开它们。
func (r *Run) addLines() {
	w, h := r.Options.Width, r.Options.Height
	horizontal := r.between(1, 5)
	vertical := r.between(1, 4)

	for i := 0; i < horizontal; i++ {
		y := float64(r.between(0, h-1))
		x := float64(r.between(0, w/2))
		length := float64(r.between(30, w*3))
		thickness := float64(r.between(1, 4))
		l := &content.Line{X1: x, Y1: y, X2: x + length, Y2: y, Thickness: thickness}
		if r.between(1, 100) < 20 {
			l.Dashes = r.dashPattern()
		}
		r.Model.Add(content.LineArea(l, content.R(x, y, x+length, y+thickness)))
	}
	for i := 0; i < vertical; i++ {
		y := float64(r.between(0, h/2))
		x := float64(r.between(0, w-1))
		length := float64(r.between(30, h*3))
		thickness := float64(r.between(1, 4))
		l := &content.Line{X1: x, Y1: y, X2: x, Y2: y + length, Thickness: thickness}
		if r.between(1, 100) < 8 {
			l.Dashes = r.dashPattern()
		}
		r.Model.Add(content.LineArea(l, content.R(x, y, x+thickness, y+length)))
	}
}

// dashPattern 多数为简单虚线，偶尔是长短交替的复合虚线。
func (r *Run) dashPattern() []float64 {
	if r.between(1, 100) < 90 {
		return []float64{float64(r.between(5, 20)), float64(r.between(5, 20))}
	}
	small := float64(r.between(5, 10))
	large := float64(r.between(12, 30))
	gap := float64(r.between(5, 20))
	return []float64{small, gap, large, gap}
}

func drawLine(s renderer.Surface, l *content.Line) {
	if l == nil {
		return
	}
	col := color.NRGBA{R: l.Gray, G: l.Gray, B: l.Gray, A: 0xff}
	s.Line(l.X1, l.Y1, l.X2, l.Y2, l.Thickness, l.Dashes, col)
}
