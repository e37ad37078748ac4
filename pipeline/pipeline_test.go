package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/glyph"
	"github.com/ByLCY/ocrsynth/labels"
	"github.com/ByLCY/ocrsynth/layout"
	"github.com/ByLCY/ocrsynth/post"
	"github.com/ByLCY/ocrsynth/renderer"
)

// stubBackend 每个字符宽为字号的一半，表面只记录文字并返回白色栅格。
type stubBackend struct {
	families []string
}

func (b *stubBackend) Measure(text string, font content.Font) (renderer.Measurement, error) {
	m := renderer.Measurement{Metrics: glyph.Metrics{
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
	return m, nil
}

func (b *stubBackend) ContainsGlyphs(string, content.Font) bool { return true }
func (b *stubBackend) Families() []string {
	if b.families == nil {
		return []string{"Stub"}
	}
	return b.families
}
func (b *stubBackend) NewSurface(w, h int) renderer.Surface { return &stubSurface{w: w, h: h} }

type stubSurface struct {
	w, h  int
	fonts []string
}

func (s *stubSurface) Size() (int, int)                                       { return s.w, s.h }
func (s *stubSurface) Clear(color.Color)                                      {}
func (s *stubSurface) FillRect(content.Rect, color.Color)                     {}
func (s *stubSurface) StrokeRect(content.Rect, float64, color.Color)          {}
func (s *stubSurface) Line(_, _, _, _, _ float64, _ []float64, _ color.Color) {}
func (s *stubSurface) Image(image.Image, float64, float64)                    {}
func (s *stubSurface) PDF() ([]byte, error)                                   { return []byte("%PDF-stub"), nil }
func (s *stubSurface) Text(_ string, f content.Font, _, _ float64, _ color.Color) error {
	s.fonts = append(s.fonts, f.Family)
	return nil
}
func (s *stubSurface) Raster() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func testConfig() Config {
	opts := layout.DefaultOptions()
	opts.Width, opts.Height = 320, 240
	opts.LinesProbability = 50
	return Config{
		Layout: opts,
		Post:   post.Probabilities{Noise: 50, Blur: 50, Pixelate: 50, Invert: 10},
		Labels: labels.Options{HeatMap: true},
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.pipeline")
	defer teardown()
	//
	backend := &stubBackend{}
	for _, kind := range layout.Kinds() {
		a, err := Generate(testConfig(), kind, 99, backend)
		require.NoError(t, err)
		b, err := Generate(testConfig(), kind, 99, backend)
		require.NoError(t, err)
		if diff := cmp.Diff(a.Model, b.Model); diff != "" {
			t.Fatalf("%s: models differ: %s", kind, diff)
		}
		assert.Equal(t, a.Plan, b.Plan)
		assert.Equal(t, a.Image.Pix, b.Image.Pix)
		assert.Equal(t, a.Rasters.Label.Pix, b.Rasters.Label.Pix)
	}
}

func TestGenerateOutputs(t *testing.T) {
	cfg := testConfig()
	cfg.PDF = true
	out, err := Generate(cfg, layout.KindParagraph, 7, &stubBackend{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), out.Image.Bounds())
	require.NotNil(t, out.Rasters)
	assert.Equal(t, out.Image.Bounds(), out.Rasters.Label.Bounds())
	assert.NotNil(t, out.Rasters.HeatMap)
	assert.Nil(t, out.Rasters.Boxes)
	assert.Equal(t, "%PDF-stub", string(out.PDF))
	assert.Equal(t, "paragraph", out.Result.Kind)
	assert.Equal(t, uint64(7), out.Result.Seed)
	assert.NotZero(t, out.Result.Stats.Words)
}

func TestGenerateRejectsMissingBackend(t *testing.T) {
	_, err := Generate(testConfig(), layout.KindTable, 1, nil)
	assert.Error(t, err)
}

func TestFamiliesAreRestricted(t *testing.T) {
	backend := &stubBackend{families: []string{"A", "B", "C"}}
	out, err := Generate(Config{Layout: testConfig().Layout, Families: []string{"B"}}, layout.KindScattered, 3, backend)
	require.NoError(t, err)
	for _, w := range out.Model.Words() {
		assert.Equal(t, "B", w.Font.Family)
	}
	glyphs := restrictFamilies(backend, []string{"Z"})
	assert.Equal(t, []string{"A", "B", "C"}, glyphs.Families(), "unknown families fall back to all")
}

func TestDeriveSeed(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 1000; i++ {
		s := DeriveSeed(42, i)
		assert.False(t, seen[s], "duplicate seed at %d", i)
		seen[s] = true
		assert.Equal(t, s, DeriveSeed(42, i))
	}
	assert.NotEqual(t, DeriveSeed(1, 0), DeriveSeed(2, 0))
}

func TestPickKindHonoursWeights(t *testing.T) {
	only := map[layout.Kind]int{layout.KindTable: 3}
	counts := map[layout.Kind]int{}
	for i := 0; i < 300; i++ {
		assert.Equal(t, layout.KindTable, PickKind(DeriveSeed(5, i), only))
		counts[PickKind(DeriveSeed(5, i), nil)]++
	}
	for _, k := range layout.Kinds() {
		assert.Greater(t, counts[k], 50, k.String())
	}
	assert.Equal(t, layout.KindScattered, PickKind(1, map[layout.Kind]int{layout.KindTable: 0}))
}

func TestBatchRunsEveryJob(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.pipeline")
	defer teardown()
	//
	var (
		mu      sync.Mutex
		indexes []int
		ticks   int
	)
	b := &Batch{
		Config:   testConfig(),
		Count:    6,
		BaseSeed: 11,
		Workers:  3,
		Backend:  &stubBackend{},
		Sink: func(job Job, out *Output) error {
			mu.Lock()
			defer mu.Unlock()
			indexes = append(indexes, job.Index)
			if out.Seed != job.Seed || out.Kind != job.Kind {
				return errors.New("job/output mismatch")
			}
			return nil
		},
		Progress: func(done, total int) {
			mu.Lock()
			ticks++
			mu.Unlock()
		},
	}
	sum, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Done: 6}, sum)
	sort.Ints(indexes)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, indexes)
	assert.Equal(t, 6, ticks)
}

func TestBatchRunCanBeRegenerated(t *testing.T) {
	var got *Output
	b := &Batch{
		Config: testConfig(), Count: 4, BaseSeed: 21, Workers: 2, Backend: &stubBackend{},
		Sink: func(job Job, out *Output) error {
			if job.Index == 2 {
				got = out
			}
			return nil
		},
	}
	_, err := b.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)

	job := b.Jobs()[2]
	again, err := Generate(b.Config, job.Kind, job.Seed, b.Backend)
	require.NoError(t, err)
	if diff := cmp.Diff(got.Model, again.Model); diff != "" {
		t.Fatalf("regenerated run differs: %s", diff)
	}
}

func TestBatchStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := &Batch{Config: testConfig(), Count: 5, Backend: &stubBackend{}}
	sum, err := b.Run(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Canceled)
	assert.Zero(t, sum.Done)
}

func TestBatchCollectsSinkErrors(t *testing.T) {
	boom := errors.New("disk full")
	b := &Batch{
		Config: testConfig(), Count: 3, Workers: 2, Backend: &stubBackend{},
		Sink: func(job Job, _ *Output) error {
			if job.Index == 1 {
				return boom
			}
			return nil
		},
	}
	sum, err := b.Run(context.Background())
	assert.Equal(t, 2, sum.Done)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, errors.Is(err, boom))
}
