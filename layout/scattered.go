package layout

import (
	"unicode/utf8"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/place"
	"github.com/ByLCY/ocrsynth/renderer"
)

// Scattered layout parameters.
const (
	scatteredMinFont      = 22
	scatteredMaxFont      = 92
	scatteredMinFragments = 3
	scatteredMaxFragments = 22
	scatteredMaxLength    = 32
	// 长文本直接从左边距开始，提高放置成功率
	scatteredLongText = 22

	invertedPercent  = 20
	highlightPercent = 10
	boxPercent       = 20
)

// scattered 在画布上随机散布若干文本片段，片段之间保持边距且互不重叠。
type scattered struct{}

func (scattered) Kind() Kind { return KindScattered }

func (scattered) Generate(r *Run) error {
	if r.chance(r.Options.LinesProbability) {
		r.addLines()
	}

	target := r.between(scatteredMinFragments, scatteredMaxFragments)
	budget := place.NewBudget(place.DefaultCeiling)
	bounds := r.Bounds()

	for placed := 0; placed < target; {
		fontHeight := float64(r.between(scatteredMinFont, scatteredMaxFont))
		font := r.Text.Font(fontHeight)
		text := r.Text.RandomText(font)

		inverted := r.between(0, 100) < invertedPercent
		highlight := r.between(0, 100) < highlightPercent
		boxed := r.between(0, 100) < boxPercent

		x := float64(r.between(0, r.Options.Width/2))
		baseline := float64(r.between(0, r.Options.Height)) + fontHeight
		if utf8.RuneCountInString(text) > scatteredLongText {
			x = place.DefaultMargin
		}

		if text == "" || utf8.RuneCountInString(text) > scatteredMaxLength {
			if budget.Fail() {
				break
			}
			continue
		}

		m, err := r.measure(text, font)
		if err != nil {
			return err
		}
		rect := textRect(x, baseline, m, fontHeight, 3)

		if !place.Fits(rect, bounds, place.DefaultMargin) ||
			!place.Admissible(rect, r.Model.Areas, place.DefaultMargin) {
			if budget.Fail() {
				tracer().Debugf("scattered: page full after %d failures, %d/%d placed", budget.Failures(), placed, target)
				break
			}
			continue
		}

		phrase := &content.Phrase{
			Text:  text,
			Words: buildWords(text, font, x, baseline, m, rect),
		}
		r.decorate(phrase, rect, inverted, highlight, boxed)
		r.Model.Add(content.PhraseArea(phrase, rect, inverted))
		placed++
	}
	return nil
}

// decorate picks the phrase's background decoration and colours.
func (r *Run) decorate(p *content.Phrase, rect content.Rect, inverted, highlight, boxed bool) {
	bg := rect.Inflate(10, 4)
	bg.Top -= 5

	switch {
	case inverted:
		p.Decoration = content.DecorationInverted
		p.Fill = darkText(r.between(160, 255))
		p.Background = &bg
	case highlight:
		p.Decoration = content.DecorationHighlight
		p.Fill = darkText(r.between(0, 128))
		p.Background = &bg
	case boxed:
		offset := float64(r.between(-10, 8))
		bg.Top += offset
		bg.Left += offset
		p.Decoration = content.DecorationBox
		p.Fill = gray(r.between(0, 96))
		p.Background = &bg
	}

	if inverted {
		p.Paint = gray(r.between(190, 255))
		return
	}
	alpha := r.between(155, 255)
	if p.Decoration == content.DecorationHighlight && p.Fill.A < 90 {
		// 浅色高亮背景上文字更深
		alpha = r.between(200, 255)
	}
	p.Paint = darkText(r.onTexture(alpha, 230))
}

func (scattered) Draw(r *Run, s renderer.Surface) error {
	for _, a := range r.Model.Areas {
		switch a.Kind {
		case content.KindLine:
			drawLine(s, a.Line)
		case content.KindPhrase:
			if err := drawPhrase(s, a.Phrase); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawPhrase(s renderer.Surface, p *content.Phrase) error {
	if p.Background != nil {
		switch p.Decoration {
		case content.DecorationInverted, content.DecorationHighlight:
			s.FillRect(*p.Background, p.Fill)
		case content.DecorationBox:
			s.StrokeRect(*p.Background, 1, p.Fill)
		}
	}
	return drawWords(s, p.Words, p.Paint)
}
