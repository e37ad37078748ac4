package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chars(text string, width float64) []Character {
	var out []Character
	x := 0.0
	for _, r := range text {
		rect := R(x, 10, x+width, 30)
		out = append(out, Character{Symbol: r, Rect: rect, Cropped: rect.Inflate(0, -2)})
		x += width
	}
	return out
}

func TestSplitWordsDropsEmptyWords(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"hello world ", []string{"hello", "world"}},
		{" lead", []string{"lead"}},
		{"a  b", []string{"a", "b"}},
		{"   ", nil},
		{"", nil},
	}
	for _, tc := range cases {
		words := SplitWords(tc.text, chars(tc.text, 8), Font{Family: "Go"}, 28)
		var got []string
		for _, w := range words {
			got = append(got, w.Text)
		}
		assert.Equal(t, tc.want, got, "text %q", tc.text)
	}
}

// 不变式：word.Rect == ∪ c.Rect，且 word.Text 等于字符拼接。
func TestWordRectIsUnionOfCharacters(t *testing.T) {
	text := "ab cde f"
	cs := chars(text, 7)
	cs[3].Rect.Top = 2
	cs[4].Rect.Bottom = 44
	words := SplitWords(text, cs, Font{}, 30)
	require.Len(t, words, 3)
	for _, w := range words {
		var union Rect
		var s string
		for i, c := range w.Characters {
			if i == 0 {
				union = c.Rect
			} else {
				union = union.Union(c.Rect)
			}
			s += string(c.Symbol)
		}
		assert.Equal(t, union, w.Rect)
		assert.Equal(t, s, w.Text)
	}
	assert.Equal(t, 2.0, words[1].Rect.Top)
	assert.Equal(t, 44.0, words[1].Rect.Bottom)
	assert.Equal(t, "ab cde f", JoinWords(words))
}

func TestRectOverlaps(t *testing.T) {
	assert.False(t, R(0, 0, 10, 10).Overlaps(R(20, 20, 30, 30)))
	assert.True(t, R(0, 0, 10, 10).Overlaps(R(5, 5, 15, 15)))
	assert.True(t, R(0, 0, 10, 10).Overlaps(R(10, 0, 20, 10)), "touching edges overlap")
	assert.True(t, R(0, 0, 100, 100).Overlaps(R(10, 10, 20, 20)), "containment overlaps")
}

func TestRectHelpers(t *testing.T) {
	r := R(10, 20, 30, 60)
	assert.Equal(t, 20.0, r.Width())
	assert.Equal(t, 40.0, r.Height())
	assert.Equal(t, 20.0, r.CenterX())
	assert.Equal(t, 40.0, r.CenterY())
	assert.Equal(t, R(5, 16, 35, 64), r.Inflate(5, 4))
	assert.True(t, r.Within(R(0, 0, 100, 100)))
	assert.False(t, r.Within(R(0, 0, 25, 100)))
	assert.Equal(t, 10, r.Offset(0.5, 0).Image().Min.X)
	assert.Equal(t, 31, r.Offset(0.5, 0).Image().Max.X)
}

func TestModelFlattening(t *testing.T) {
	var m Model
	p := &Phrase{Text: "ab c"}
	p.Words = SplitWords(p.Text, chars(p.Text, 5), Font{}, 30)
	m.Add(PhraseArea(p, p.Bounds(), false))
	m.Add(LineArea(&Line{X1: 0, Y1: 5, X2: 50, Y2: 5, Thickness: 1}, R(0, 4, 50, 6)))

	assert.Len(t, m.Phrases(), 1)
	assert.Len(t, m.Lines(), 1)
	assert.Len(t, m.Words(), 2)
	assert.Len(t, m.Characters(), 3)

	m.Reset()
	assert.Empty(t, m.Areas)
	assert.Empty(t, m.Characters())
}

func TestIsLink(t *testing.T) {
	for _, w := range []string{"www.example.com", "www.example.com,", "https://www.a.io", "http://b.net", "a.b@c.org"} {
		assert.True(t, IsLink(w), w)
	}
	for _, w := range []string{"awwwards", "swww", "total", ""} {
		assert.False(t, IsLink(w), w)
	}
}
