package layout

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/glyph"
	"github.com/ByLCY/ocrsynth/place"
	"github.com/ByLCY/ocrsynth/renderer"
	"github.com/ByLCY/ocrsynth/textgen"
)

// stubBackend 是一个最小实现：每个字符宽度为字号的一半，空格为四分之一。
type stubBackend struct {
	short    bool   // 故意少返回一个位置，模拟后端契约错误
	resolved string // 非空时模拟字体回退
}

func (b *stubBackend) Measure(text string, font content.Font) (renderer.Measurement, error) {
	m := renderer.Measurement{Family: b.resolved, Metrics: glyph.Metrics{
		Size:      font.Size,
		Ascent:    font.Size * 0.75,
		Descent:   font.Size * 0.22,
		CapHeight: font.Size * 0.7,
		XHeight:   font.Size * 0.5,
	}}
	for _, r := range text {
		w := font.Size * 0.5
		if r == ' ' {
			w = font.Size * 0.25
		}
		m.Positions = append(m.Positions, m.Width)
		m.Widths = append(m.Widths, w)
		m.Width += w
	}
	if b.short && len(m.Positions) > 0 {
		m.Positions = m.Positions[1:]
	}
	return m, nil
}

func (b *stubBackend) ContainsGlyphs(string, content.Font) bool { return true }
func (b *stubBackend) Families() []string                     { return []string{"Stub"} }
func (b *stubBackend) NewSurface(w, h int) renderer.Surface   { return &recordingSurface{w: w, h: h} }

// recordingSurface 只记录绘制调用。
type recordingSurface struct {
	w, h   int
	texts  []string
	fills  int
	lines  int
	images int
}

func (s *recordingSurface) Size() (int, int)                               { return s.w, s.h }
func (s *recordingSurface) Clear(color.Color)                              {}
func (s *recordingSurface) FillRect(content.Rect, color.Color)             { s.fills++ }
func (s *recordingSurface) StrokeRect(content.Rect, float64, color.Color)  { s.fills++ }
func (s *recordingSurface) Line(_, _, _, _, _ float64, _ []float64, _ color.Color) { s.lines++ }
func (s *recordingSurface) Image(image.Image, float64, float64)            { s.images++ }
func (s *recordingSurface) Raster() *image.RGBA                            { return image.NewRGBA(image.Rect(0, 0, s.w, s.h)) }
func (s *recordingSurface) PDF() ([]byte, error)                           { return nil, nil }
func (s *recordingSurface) Text(text string, _ content.Font, _, _ float64, _ color.Color) error {
	s.texts = append(s.texts, text)
	return nil
}

func newTestRun(seed uint64, backend renderer.Backend, opts Options) *Run {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	run := NewRun(rng, backend, textgen.New(rng, backend), opts)
	run.Seed = seed
	return run
}

func generate(t *testing.T, kind Kind, seed uint64, opts Options) *Run {
	t.Helper()
	s, err := New(kind)
	require.NoError(t, err)
	run := newTestRun(seed, &stubBackend{}, opts)
	require.NoError(t, run.Generate(s))
	return run
}

func TestScatteredPhrasesNeverOverlap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.layout")
	defer teardown()
	//
	opts := DefaultOptions()
	opts.LinesProbability = 50
	for seed := uint64(1); seed <= 20; seed++ {
		run := generate(t, KindScattered, seed, opts)
		areas := run.Model.Areas
		require.NotEmpty(t, run.Model.Phrases(), "seed %d", seed)
		for i := range areas {
			for j := range areas {
				if i == j || (areas[i].Kind == content.KindLine && areas[j].Kind == content.KindLine) {
					continue
				}
				grown := areas[i].Rect.Inflate(place.DefaultMargin, place.DefaultMargin)
				assert.False(t, grown.Overlaps(areas[j].Rect), "seed %d: area %d overlaps %d", seed, i, j)
			}
		}
	}
}

func TestPhrasesRespectRightEdge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.layout")
	defer teardown()
	//
	opts := DefaultOptions()
	limit := float64(opts.Width) - place.DefaultMargin
	for _, kind := range Kinds() {
		for seed := uint64(1); seed <= 15; seed++ {
			run := generate(t, kind, seed, opts)
			for _, a := range run.Model.Areas {
				if a.Kind != content.KindPhrase {
					continue
				}
				assert.LessOrEqual(t, a.Rect.Right, limit, "%s seed %d: %q", kind, seed, a.Phrase.Text)
			}
		}
	}
}

func TestScatteredTextLengthLimit(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		run := generate(t, KindScattered, seed, DefaultOptions())
		for _, p := range run.Model.Phrases() {
			assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), scatteredMaxLength)
		}
	}
}

func TestWordRectIsUnionOfCharacters(t *testing.T) {
	for _, kind := range Kinds() {
		run := generate(t, kind, 42, DefaultOptions())
		for _, w := range run.Model.Words() {
			var union content.Rect
			text := ""
			for _, c := range w.Characters {
				union = union.Union(c.Rect)
				text += string(c.Symbol)
			}
			assert.Equal(t, union, w.Rect, "%s %q", kind, w.Text)
			assert.Equal(t, text, w.Text)
			assert.NotEmpty(t, w.Text)
		}
	}
}

func TestCroppedWithinFontBounds(t *testing.T) {
	run := generate(t, KindParagraph, 3, DefaultOptions())
	for _, w := range run.Model.Words() {
		for _, c := range w.Characters {
			assert.GreaterOrEqual(t, c.Cropped.Top, w.Baseline-w.Font.Size*0.75-1e-9)
			assert.LessOrEqual(t, c.Cropped.Bottom, w.Baseline+w.Font.Size*0.22+1e-9)
		}
	}
}

func TestWordsCarryResolvedFamily(t *testing.T) {
	s, err := New(KindParagraph)
	require.NoError(t, err)
	run := newTestRun(3, &stubBackend{resolved: "Go"}, DefaultOptions())
	require.NoError(t, run.Generate(s))
	words := run.Model.Words()
	require.NotEmpty(t, words)
	for _, w := range words {
		assert.Equal(t, "Go", w.Font.Family)
	}
}

func TestSameSeedSameModel(t *testing.T) {
	for _, kind := range Kinds() {
		a := generate(t, kind, 99, DefaultOptions())
		b := generate(t, kind, 99, DefaultOptions())
		if diff := cmp.Diff(a.Model, b.Model); diff != "" {
			t.Fatalf("%s: models differ (-a +b):\n%s", kind, diff)
		}
	}
}

func TestQuantityCellsAreSmallIntegers(t *testing.T) {
	run := newTestRun(5, &stubBackend{}, DefaultOptions())
	col := content.Column{Value: content.ValueQuantity}
	for i := 0; i < 1000; i++ {
		n, err := strconv.Atoi(run.cellText(content.Row{}, col))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 14)
	}
}

// fixedText 覆盖部分生成器方法，其余交给 textgen。
type fixedText struct {
	*textgen.Generator
	quantity string
	line     string
}

func (f fixedText) Quantity() string { return f.quantity }

func (f fixedText) TextLine(min, max int, font content.Font) string {
	if f.line != "" {
		return f.line
	}
	return f.Generator.TextLine(min, max, font)
}

func TestQuantityCellsComeFromProvider(t *testing.T) {
	run := newTestRun(5, &stubBackend{}, DefaultOptions())
	run.Text = fixedText{Generator: textgen.New(run.Rand, run.Backend), quantity: "7"}
	assert.Equal(t, "7", run.cellText(content.Row{}, content.Column{Value: content.ValueQuantity}))
}

func TestOnlyLinksAreUnderlined(t *testing.T) {
	sawUnderline := false
	for seed := uint64(1); seed <= 10; seed++ {
		run := newTestRun(seed, &stubBackend{}, DefaultOptions())
		run.Text = fixedText{
			Generator: textgen.New(run.Rand, run.Backend),
			line:      "awwwards www.example.com hi@example.org swww",
		}
		s, err := New(KindParagraph)
		require.NoError(t, err)
		require.NoError(t, run.Generate(s))
		for _, w := range run.Model.Words() {
			if w.Underline {
				sawUnderline = true
				assert.True(t, content.IsLink(w.Text), w.Text)
			}
			if w.Text == "awwwards" || w.Text == "swww" {
				assert.False(t, w.Underline)
			}
		}
	}
	assert.True(t, sawUnderline)
}

func TestTableGridAndCells(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		run := generate(t, KindTable, seed, DefaultOptions())
		g := run.Model.Grid
		require.NotNil(t, g)
		require.GreaterOrEqual(t, len(g.Columns), tableMinColumns)
		for i := 1; i < len(g.Columns); i++ {
			assert.Equal(t, g.Columns[i-1].Right, g.Columns[i].Left)
		}
		for i := 1; i < len(g.Rows); i++ {
			assert.Equal(t, g.Rows[i-1].Bottom, g.Rows[i].Top)
			assert.False(t, g.Rows[i].Header)
		}
	}
}

func TestMeasurementMismatchIsFatal(t *testing.T) {
	s, err := New(KindParagraph)
	require.NoError(t, err)
	run := newTestRun(1, &stubBackend{short: true}, DefaultOptions())
	err = run.Generate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMeasurement))
}

func TestDrawRendersEveryWord(t *testing.T) {
	for _, kind := range Kinds() {
		s, _ := New(kind)
		run := newTestRun(7, &stubBackend{}, DefaultOptions())
		require.NoError(t, run.Generate(s))
		surf := &recordingSurface{w: 800, h: 600}
		require.NoError(t, run.Draw(s, surf))
		assert.Len(t, surf.texts, len(run.Model.Words()), "%s", kind)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{"scattered": KindScattered, "Scattered-Text": KindScattered, "paragraph": KindParagraph, " TABLE ": KindTable}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("spiral")
	assert.Error(t, err)
	assert.Equal(t, "table", KindTable.String())
}

func TestMissingTexturesAreSkipped(t *testing.T) {
	opts := DefaultOptions()
	opts.TextureProbability = 100
	opts.Textures = NewTextures(filepath.Join(t.TempDir(), "missing"))
	run := generate(t, KindParagraph, 1, opts)
	assert.False(t, run.Background.Applied)
}

// writeTexture 写入一张纯灰度纹理图。
func writeTexture(t *testing.T, dir string, level uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	for i := range img.Pix {
		img.Pix[i] = level
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	f, err := os.Create(filepath.Join(dir, "texture.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestTextureTilesCanvas(t *testing.T) {
	dir := t.TempDir()
	writeTexture(t, dir, 0)

	opts := DefaultOptions()
	opts.TextureProbability = 100
	opts.Textures = NewTextures(dir)
	run := generate(t, KindScattered, 2, opts)
	require.True(t, run.Background.Applied)
	assert.True(t, run.Background.Dark)
	assert.Equal(t, image.Rect(0, 0, 800, 600), run.Background.tile.Bounds())

	surf := &recordingSurface{w: 800, h: 600}
	s, _ := New(KindScattered)
	require.NoError(t, run.Draw(s, surf))
	assert.Equal(t, 1, surf.images)
}

func TestDarkTextureForcesOpaqueText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.layout")
	defer teardown()

	for _, level := range []uint8{0, 250} {
		dir := t.TempDir()
		writeTexture(t, dir, level)
		opts := DefaultOptions()
		opts.TextureProbability = 100
		opts.Textures = NewTextures(dir)

		sawFaint := false
		for seed := uint64(1); seed <= 20; seed++ {
			for _, kind := range []Kind{KindParagraph, KindScattered} {
				run := generate(t, kind, seed, opts)
				require.True(t, run.Background.Applied)
				assert.Equal(t, level < 240, run.Background.Dark)
				for _, p := range run.Model.Phrases() {
					if p.Decoration == content.DecorationInverted {
						continue
					}
					if level < 240 {
						assert.Equal(t, uint8(255), p.Paint.A, "seed %d kind %s", seed, kind)
					} else {
						assert.GreaterOrEqual(t, p.Paint.A, uint8(200))
						sawFaint = sawFaint || p.Paint.A < 255
					}
				}
			}
		}
		if level >= 240 {
			assert.True(t, sawFaint, "light textures keep some alpha variation")
		}
	}
}

func TestResultSnapshot(t *testing.T) {
	opts := DefaultOptions()
	opts.Debug.Model = true
	run := generate(t, KindParagraph, 4, opts)
	res := run.Result(KindParagraph)
	assert.Equal(t, "paragraph", res.Kind)
	assert.Equal(t, uint64(4), res.Seed)
	assert.Equal(t, len(run.Model.Words()), res.Stats.Words)
	require.NotNil(t, res.Model)

	path := filepath.Join(t.TempDir(), "debug", "run.json")
	require.NoError(t, WriteDebugJSON(res, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
