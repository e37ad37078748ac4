package renderer

import (
	"image"
	"image/color"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/glyph"
)

// Measurement 是一次文本测量的结果：总宽度、逐字符位置与宽度（按 rune 计）以及字体度量，均为像素。
type Measurement struct {
	// Family 是后端实际使用的字体族；为空表示与请求一致。
	Family    string
	Width     float64
	Positions []float64
	Widths    []float64
	Metrics   glyph.Metrics
}

// Backend 负责字体测量与绘图表面创建。实现需可被多个运行并发调用。
type Backend interface {
	Measure(text string, font content.Font) (Measurement, error)
	ContainsGlyphs(text string, font content.Font) bool
	Families() []string
	NewSurface(width, height int) Surface
}

// Surface 是单次运行独占的绘图表面，坐标原点在左上角，单位为像素。
type Surface interface {
	Size() (width, height int)
	Clear(c color.Color)
	FillRect(r content.Rect, c color.Color)
	StrokeRect(r content.Rect, width float64, c color.Color)
	Line(x1, y1, x2, y2, width float64, dashes []float64, c color.Color)
	Text(text string, font content.Font, x, baseline float64, c color.Color) error
	Image(img image.Image, x, y float64)
	// Raster 栅格化当前内容。
	Raster() *image.RGBA
	// PDF 将当前内容输出为单页 PDF。
	PDF() ([]byte, error)
}
