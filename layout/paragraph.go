package layout

import (
	"image/color"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/place"
	"github.com/ByLCY/ocrsynth/renderer"
)

// Paragraph layout parameters.
const (
	paragraphMinFont    = 17
	paragraphMaxFont    = 38
	paragraphMinLines   = 10
	paragraphMaxLines   = 30
	paragraphMaxSpacing = 20
	// 字号小于该值时每行放更多单词
	paragraphSmallFont = 20
	underlinePercent   = 80
)

// paragraph 按固定行距排列多行文本，整块可右对齐。
type paragraph struct{}

func (paragraph) Kind() Kind { return KindParagraph }

func (paragraph) Generate(r *Run) error {
	fontHeight := float64(r.between(paragraphMinFont, paragraphMaxFont))
	lineCount := r.between(paragraphMinLines, paragraphMaxLines)
	spacing := float64(r.between(0, paragraphMaxSpacing))
	rightJustified := r.between(1, 100) > 90
	font := r.Text.Font(fontHeight)
	paint := r.textPaint()

	limit := content.R(0, 0, r.Width()-place.DefaultMargin, r.Height()-place.DefaultMargin)
	for i := 0; i < lineCount; i++ {
		var text string
		if fontHeight < paragraphSmallFont {
			text = r.Text.TextLine(5, 10, font)
		} else {
			text = r.Text.TextLine(2, 5, font)
		}
		if text == "" {
			continue
		}

		x := float64(place.DefaultMargin)
		baseline := float64(i+1) * (fontHeight + spacing)
		m, err := r.measure(text, font)
		if err != nil {
			return err
		}
		rect := textRect(x, baseline, m, fontHeight, 0)
		if rect.Right > limit.Right || rect.Bottom > limit.Bottom {
			// 超出画布的行直接跳过，不重试
			continue
		}
		if rightJustified {
			x = limit.Right - m.Width
			rect = textRect(x, baseline, m, fontHeight, 0)
		}

		phrase := &content.Phrase{
			Text:  text,
			Words: buildWords(text, font, x, baseline, m, rect),
			Paint: paint,
		}
		r.underlineLinks(phrase.Words)
		r.Model.Add(content.PhraseArea(phrase, rect, false))
	}
	return nil
}

// textPaint 为整段文字选择透明度；有纹理时避免过浅。
func (r *Run) textPaint() color.NRGBA {
	return darkText(r.onTexture(r.between(120, 255), 200))
}

// onTexture clamps a text alpha drawn over a background texture: below
// floor it becomes opaque, and a dark texture always gets opaque text.
func (r *Run) onTexture(alpha, floor int) int {
	if !r.Background.Applied {
		return alpha
	}
	if r.Background.Dark || alpha < floor {
		return 255
	}
	return alpha
}

// underlineLinks 给网址与邮箱单词随机加下划线。
func (r *Run) underlineLinks(words []*content.Word) {
	for _, w := range words {
		if content.IsLink(w.Text) && r.between(1, 100) < underlinePercent {
			w.Underline = true
		}
	}
}

func (paragraph) Draw(r *Run, s renderer.Surface) error {
	for _, p := range r.Model.Phrases() {
		if err := drawWords(s, p.Words, p.Paint); err != nil {
			return err
		}
	}
	return nil
}
