package labels

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/renderer"
)

// paintBackend 的表面只实现 Clear 与矩形描边计数，足以检查栅格合成。
type paintBackend struct{ surfaces []*paintSurface }

func (b *paintBackend) Measure(string, content.Font) (renderer.Measurement, error) {
	return renderer.Measurement{}, nil
}
func (b *paintBackend) ContainsGlyphs(string, content.Font) bool { return true }
func (b *paintBackend) Families() []string                     { return nil }
func (b *paintBackend) NewSurface(w, h int) renderer.Surface {
	s := &paintSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	b.surfaces = append(b.surfaces, s)
	return s
}

type paintSurface struct {
	img     *image.RGBA
	texts   []string
	strokes []color.Color
}

func (s *paintSurface) Size() (int, int) { return s.img.Rect.Dx(), s.img.Rect.Dy() }
func (s *paintSurface) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	fill := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	for y := 0; y < s.img.Rect.Dy(); y++ {
		for x := 0; x < s.img.Rect.Dx(); x++ {
			s.img.SetRGBA(x, y, fill)
		}
	}
}
func (s *paintSurface) FillRect(content.Rect, color.Color) {}
func (s *paintSurface) StrokeRect(_ content.Rect, _ float64, c color.Color) {
	s.strokes = append(s.strokes, c)
}
func (s *paintSurface) Line(_, _, _, _, _ float64, _ []float64, _ color.Color) {}
func (s *paintSurface) Image(image.Image, float64, float64)                   {}
func (s *paintSurface) Raster() *image.RGBA                                   { return s.img }
func (s *paintSurface) PDF() ([]byte, error)                                  { return nil, nil }
func (s *paintSurface) Text(text string, _ content.Font, _, _ float64, _ color.Color) error {
	s.texts = append(s.texts, text)
	return nil
}

func sampleModel() *content.Model {
	w := &content.Word{Font: content.Font{Family: "Stub", Size: 20}, Baseline: 40}
	w.Add(content.Character{Symbol: 'A', Rect: content.R(20, 20, 30, 45), Cropped: content.R(21, 26, 29, 40)})
	w.Add(content.Character{Symbol: 'B', Rect: content.R(30, 20, 40, 45), Cropped: content.R(31, 26, 39, 40)})
	var m content.Model
	p := &content.Phrase{Text: "AB", Words: []*content.Word{w}}
	m.Add(content.PhraseArea(p, w.Rect, false))
	return &m
}

func TestKernelsAreRadial(t *testing.T) {
	label, heat := Kernels()
	require.Equal(t, image.Rect(0, 0, KernelSize, KernelSize), label.Bounds())
	center := label.RGBAAt(KernelSize/2, KernelSize/2)
	assert.Greater(t, center.R, uint8(0xf0), "中心接近白色")
	assert.Equal(t, uint8(0), label.RGBAAt(0, 0).A, "角落在半径之外")
	edge := label.RGBAAt(KernelSize/2, 1)
	assert.Less(t, edge.R, uint8(0x10), "边缘接近黑色")

	assert.Equal(t, uint8(heatAlpha), heat.RGBAAt(KernelSize/2, KernelSize/2).A)
	assert.Equal(t, uint8(0), heat.RGBAAt(0, 0).A)
}

func TestGradientStops(t *testing.T) {
	assert.Equal(t, heatStops[0], gradientAt(heatStops, 0))
	assert.Equal(t, heatStops[len(heatStops)-1], gradientAt(heatStops, 1))
	assert.Equal(t, heatStops[3], gradientAt(heatStops, 0.5))
}

func TestStampRect(t *testing.T) {
	r := StampRect(content.R(10.2, 20.5, 18.4, 30))
	assert.Equal(t, image.Rect(10, 18, 20, 32), r)
}

func TestLabelMarksCharacters(t *testing.T) {
	img := Label(sampleModel(), 80, 60)
	assert.Equal(t, LabelBackground, img.RGBAAt(5, 5))
	// 字符中心附近应明显变亮
	assert.Greater(t, img.RGBAAt(25, 33).R, uint8(0x80))
	assert.Greater(t, img.RGBAAt(35, 33).R, uint8(0x80))
	assert.Equal(t, LabelBackground, img.RGBAAt(60, 33))
}

func TestLabelIgnoresOffCanvasCharacters(t *testing.T) {
	w := &content.Word{}
	w.Add(content.Character{Symbol: 'x', Rect: content.R(200, 200, 210, 210), Cropped: content.R(200, 200, 210, 210)})
	var m content.Model
	m.Add(content.PhraseArea(&content.Phrase{Words: []*content.Word{w}}, w.Rect, false))
	assert.NotPanics(t, func() { Label(&m, 50, 50) })
}

func TestRenderHonoursOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ocrsynth.labels")
	defer teardown()
	//
	backend := &paintBackend{}
	out, err := Render(sampleModel(), 80, 60, backend, Options{})
	require.NoError(t, err)
	assert.NotNil(t, out.Label)
	assert.Nil(t, out.HeatMap)
	assert.Nil(t, out.Boxes)
	assert.Empty(t, backend.surfaces)

	out, err = Render(sampleModel(), 80, 60, backend, Options{HeatMap: true, Boxes: true})
	require.NoError(t, err)
	require.Len(t, backend.surfaces, 2)
	assert.Equal(t, HeatMapBackground, out.HeatMap.RGBAAt(5, 5))
	assert.NotEqual(t, HeatMapBackground, out.HeatMap.RGBAAt(25, 33), "热力核覆盖字符")
	assert.Equal(t, []string{"AB"}, backend.surfaces[0].texts)

	boxes := backend.surfaces[1]
	assert.Equal(t, []string{"AB"}, boxes.texts)
	require.Len(t, boxes.strokes, 3, "两个字符框加一个单词框")
	assert.Equal(t, color.Color(WordBox), boxes.strokes[2])
}
