package textgen

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ocrsynth/content"
)

type asciiOnly struct{}

func (asciiOnly) ContainsGlyphs(text string, _ content.Font) bool {
	for _, r := range text {
		if r > 0x7e {
			return false
		}
	}
	return true
}

func (asciiOnly) Families() []string { return []string{"Go", "Go Mono"} }

// rejectFirst 拒绝前 n 次字形检查，之后全部接受。
type rejectFirst struct {
	n     int
	calls int
}

func (r *rejectFirst) ContainsGlyphs(string, content.Font) bool {
	r.calls++
	return r.calls > r.n
}

func (*rejectFirst) Families() []string { return []string{"Go"} }

func newGen(seed uint64, glyphs Glyphs) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), glyphs)
}

func TestSameSeedSameText(t *testing.T) {
	a, b := newGen(7, nil), newGen(7, nil)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.RandomText(content.Font{}), b.RandomText(content.Font{}))
	}
}

func TestWordListLoaded(t *testing.T) {
	require.NotEmpty(t, words)
	for _, w := range words {
		assert.NotContains(t, w, " ")
	}
}

func TestGibberishWordShape(t *testing.T) {
	g := newGen(1, nil)
	re := regexp.MustCompile(`^[a-z]+$`)
	for i := 0; i < 200; i++ {
		w := g.GibberishWord()
		assert.Regexp(t, re, w)
		assert.GreaterOrEqual(t, len(w), 2)
	}
}

func TestTextLineWordCount(t *testing.T) {
	g := newGen(2, nil)
	for i := 0; i < 100; i++ {
		line := g.TextLine(2, 5, content.Font{})
		assert.Equal(t, strings.TrimSpace(line), line)
		assert.NotEmpty(t, line)
	}
}

func TestRandomTextRespectsGlyphs(t *testing.T) {
	g := newGen(3, asciiOnly{})
	for i := 0; i < 300; i++ {
		text := g.RandomText(content.Font{Family: "Go"})
		assert.True(t, asciiOnly{}.ContainsGlyphs(text, content.Font{}), "%q", text)
	}
}

func TestRandomTextRetriesUncoveredText(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		glyphs := &rejectFirst{n: 2}
		g := newGen(seed, glyphs)
		assert.NotEmpty(t, g.RandomText(content.Font{Family: "Go"}), "seed %d", seed)
	}

	never := &rejectFirst{n: 1 << 30}
	g := newGen(1, never)
	assert.Empty(t, g.RandomText(content.Font{Family: "Go"}))
	assert.GreaterOrEqual(t, never.calls, maxTextRetries)
}

func TestPunctuationFallsBackToSpace(t *testing.T) {
	g := newGen(4, asciiOnly{})
	for i := 0; i < 300; i++ {
		p := g.Punctuation(content.Font{})
		assert.True(t, asciiOnly{}.ContainsGlyphs(p, content.Font{}), "%q", p)
	}
}

func TestCodeLength(t *testing.T) {
	g := newGen(5, nil)
	for i := 0; i < 200; i++ {
		c := g.Code()
		assert.GreaterOrEqual(t, len(c), 1)
		assert.LessOrEqual(t, len(c), 14)
	}
}

func TestQuantityRange(t *testing.T) {
	g := newGen(6, nil)
	for i := 0; i < 500; i++ {
		n, err := strconv.Atoi(g.Quantity())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 14)
	}
}

func TestNumberFormats(t *testing.T) {
	g := newGen(8, nil)
	re := regexp.MustCompile(`^\$?[0-9][0-9,]*(\.[0-9]{2})?$`)
	for i := 0; i < 500; i++ {
		assert.Regexp(t, re, g.Number())
	}
}

func TestDateParsesBack(t *testing.T) {
	g := newGen(9, nil)
	for _, layout := range dateLayouts {
		s := g.Date(layout)
		d, err := time.Parse(layout, s)
		require.NoError(t, err, "%s %q", layout, s)
		assert.False(t, d.Before(dateStart))
		assert.False(t, d.After(dateEnd))
	}
}

func TestEmailAndWeb(t *testing.T) {
	g := newGen(10, nil)
	for i := 0; i < 100; i++ {
		e := g.Email()
		assert.Equal(t, strings.ToLower(e), e)
		assert.Equal(t, 1, strings.Count(e, "@"))
		assert.True(t, content.IsLink(e))

		w := g.WebAddress()
		assert.Contains(t, w, "www.")
		assert.True(t, content.IsLink(w))
	}
	assert.False(t, content.IsLink("total"))
}

func TestStyleDistribution(t *testing.T) {
	g := newGen(11, nil)
	counts := map[content.Style]int{}
	for i := 0; i < 10000; i++ {
		counts[g.Style()]++
	}
	assert.InDelta(t, 9000, counts[content.StyleRegular], 300)
	assert.InDelta(t, 500, counts[content.StyleBold], 150)
}

func TestFontPicksBackendFamily(t *testing.T) {
	g := newGen(12, asciiOnly{})
	for i := 0; i < 20; i++ {
		f := g.Font(30)
		assert.Contains(t, []string{"Go", "Go Mono"}, f.Family)
		assert.Equal(t, 30.0, f.Size)
	}
	assert.Equal(t, "", newGen(12, nil).Font(10).Family)
}
