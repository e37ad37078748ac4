// Package content holds the entity graph produced by one generation run:
// phrases made of words made of characters, plus free-standing decorative
// lines. Entities are mutated only while a layout pass builds them and are
// treated as read-only once added to a Model.
package content

import "image/color"

// Kind tags the variant carried by an Area.
type Kind int

const (
	KindLine Kind = iota
	KindPhrase
	KindWord
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPhrase:
		return "phrase"
	case KindWord:
		return "word"
	case KindCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// Area 是所有已放置内容的公共载体：矩形 + 反色标记，具体负载由 Kind 决定。
type Area struct {
	Kind     Kind    `json:"kind"`
	Rect     Rect    `json:"rect"`
	Inverted bool    `json:"inverted,omitempty"`
	Line     *Line   `json:"line,omitempty"`
	Phrase   *Phrase `json:"phrase,omitempty"`
}

// LineArea wraps a decorative line.
func LineArea(l *Line, rect Rect) Area {
	return Area{Kind: KindLine, Rect: rect, Line: l}
}

// PhraseArea wraps a phrase; the placement rectangle is the phrase's own.
func PhraseArea(p *Phrase, rect Rect, inverted bool) Area {
	return Area{Kind: KindPhrase, Rect: rect, Inverted: inverted, Phrase: p}
}

// Line 是装饰线段，没有文字。
type Line struct {
	X1        float64   `json:"x1"`
	Y1        float64   `json:"y1"`
	X2        float64   `json:"x2"`
	Y2        float64   `json:"y2"`
	Thickness float64   `json:"thickness"`
	Dashes    []float64 `json:"dashes,omitempty"`
	Gray      uint8     `json:"gray"`
}

// Decoration describes how a phrase's background rectangle is painted.
type Decoration int

const (
	DecorationNone Decoration = iota
	DecorationInverted
	DecorationHighlight
	DecorationBox
)

// Phrase 对应一次放置尝试的完整文本。
type Phrase struct {
	Text       string      `json:"text"`
	Background *Rect       `json:"background,omitempty"`
	Decoration Decoration  `json:"decoration"`
	Fill       color.NRGBA `json:"-"`
	Paint      color.NRGBA `json:"-"`
	Words      []*Word     `json:"words"`
}

// Bounds returns the union of the phrase's word rectangles.
func (p *Phrase) Bounds() Rect {
	var out Rect
	for _, w := range p.Words {
		out = out.Union(w.Rect)
	}
	return out
}

// Model 是一次运行内已提交的内容列表，按提交顺序保存。
type Model struct {
	Areas []Area `json:"areas"`
	Grid  *Grid  `json:"grid,omitempty"`
}

// Add commits an area.
func (m *Model) Add(a Area) { m.Areas = append(m.Areas, a) }

// Reset clears the model for a new run.
func (m *Model) Reset() {
	m.Areas = m.Areas[:0]
	m.Grid = nil
}

// Phrases returns committed phrases in order.
func (m *Model) Phrases() []*Phrase {
	var out []*Phrase
	for _, a := range m.Areas {
		if a.Kind == KindPhrase && a.Phrase != nil {
			out = append(out, a.Phrase)
		}
	}
	return out
}

// Lines returns committed decorative lines in order.
func (m *Model) Lines() []*Line {
	var out []*Line
	for _, a := range m.Areas {
		if a.Kind == KindLine && a.Line != nil {
			out = append(out, a.Line)
		}
	}
	return out
}

// Words flattens all phrases into their words.
func (m *Model) Words() []*Word {
	var out []*Word
	for _, p := range m.Phrases() {
		out = append(out, p.Words...)
	}
	return out
}

// Characters flattens all words into their characters.
func (m *Model) Characters() []Character {
	var out []Character
	for _, w := range m.Words() {
		out = append(out, w.Characters...)
	}
	return out
}
