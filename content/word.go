package content

import "strings"

// Style 是字体样式位标记。
type Style uint8

const StyleRegular Style = 0

const (
	StyleBold Style = 1 << iota
	StyleItalic
)

func (s Style) Bold() bool   { return s&StyleBold != 0 }
func (s Style) Italic() bool { return s&StyleItalic != 0 }

func (s Style) String() string {
	switch {
	case s.Bold() && s.Italic():
		return "bold-italic"
	case s.Bold():
		return "bold"
	case s.Italic():
		return "italic"
	default:
		return "regular"
	}
}

// Font 引用一个字体族、样式与像素字号。
type Font struct {
	Family string  `json:"family"`
	Style  Style   `json:"style"`
	Size   float64 `json:"size"`
}

// Character is one glyph: the advance-based box and the tight ground-truth box.
type Character struct {
	Symbol  rune `json:"symbol"`
	Rect    Rect `json:"rect"`
	Cropped Rect `json:"cropped"`
}

// Word 是一段不含空格的字符序列；Rect 始终等于其字符 Rect 的并集。
type Word struct {
	Text       string      `json:"text"`
	Font       Font        `json:"font"`
	Baseline   float64     `json:"baseline"`
	Rect       Rect        `json:"rect"`
	Characters []Character `json:"characters"`
	Underline  bool        `json:"underline,omitempty"`
}

// Add appends a character, growing the word's text and rectangle.
func (w *Word) Add(c Character) {
	if len(w.Characters) == 0 {
		w.Rect = c.Rect
	} else {
		w.Rect = w.Rect.Union(c.Rect)
	}
	w.Characters = append(w.Characters, c)
	w.Text += string(c.Symbol)
}

// Cropped returns the union of the characters' cropped rectangles.
func (w *Word) Cropped() Rect {
	var out Rect
	for i, c := range w.Characters {
		if i == 0 {
			out = c.Cropped
			continue
		}
		out = out.Union(c.Cropped)
	}
	return out
}

// SplitWords groups characters into words. A space terminates the current
// word; empty words, including one left by a trailing space, are dropped.
// chars must hold one entry per rune of text.
func SplitWords(text string, chars []Character, font Font, baseline float64) []*Word {
	var (
		words   []*Word
		current *Word
	)
	flush := func() {
		if current != nil && len(current.Characters) > 0 {
			words = append(words, current)
		}
		current = nil
	}
	i := 0
	for _, r := range text {
		if i >= len(chars) {
			break
		}
		c := chars[i]
		i++
		if r == ' ' {
			flush()
			continue
		}
		if current == nil {
			current = &Word{Font: font, Baseline: baseline}
		}
		current.Add(c)
	}
	flush()
	return words
}

// JoinWords reassembles the visible text of words with single spaces.
func JoinWords(words []*Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// IsLink reports whether a word looks like an email or web address.
// Trailing punctuation after the address is allowed.
func IsLink(word string) bool {
	return strings.Contains(word, "@") || strings.HasPrefix(word, "www.") ||
		strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://")
}
