package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/ocrsynth/content"
)

// surface 在 canvas 上按像素坐标绘制（1 像素 = 1 canvas 毫米，左上角为原点）。
type surface struct {
	r      *Renderer
	width  int
	height int
	c      *canvas.Canvas
	ctx    *canvas.Context
}

func newSurface(r *Renderer, width, height int) *surface {
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	return &surface{r: r, width: width, height: height, c: c, ctx: ctx}
}

func (s *surface) Size() (int, int) { return s.width, s.height }

func (s *surface) Clear(col color.Color) {
	s.FillRect(content.R(0, 0, float64(s.width), float64(s.height)), col)
}

func (s *surface) FillRect(r content.Rect, col color.Color) {
	if r.Empty() {
		return
	}
	s.ctx.SetFillColor(col)
	s.ctx.SetStrokeColor(color.NRGBA{})
	s.ctx.DrawPath(r.Left, r.Top, canvas.Rectangle(r.Width(), r.Height()))
}

func (s *surface) StrokeRect(r content.Rect, width float64, col color.Color) {
	if r.Empty() {
		return
	}
	if width <= 0 {
		width = 1
	}
	s.ctx.SetFillColor(color.NRGBA{})
	s.ctx.SetStrokeColor(col)
	s.ctx.SetStrokeWidth(width)
	s.ctx.DrawPath(r.Left, r.Top, canvas.Rectangle(r.Width(), r.Height()))
}

func (s *surface) Line(x1, y1, x2, y2, width float64, dashes []float64, col color.Color) {
	if width <= 0 {
		width = 1
	}
	s.ctx.SetFillColor(color.NRGBA{})
	s.ctx.SetStrokeColor(col)
	s.ctx.SetStrokeWidth(width)
	if len(dashes) > 0 {
		s.ctx.SetDashes(0, dashes...)
		defer s.ctx.SetDashes(0)
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	s.ctx.DrawPath(x1, y1, p)
}

// Text 在 (x, baseline) 处绘制单行文本。
func (s *surface) Text(text string, font content.Font, x, baseline float64, col color.Color) error {
	face, err := s.r.fontFace(font, col)
	if err != nil {
		return err
	}
	s.ctx.DrawText(x, baseline, canvas.NewTextLine(face, text, canvas.Left))
	return nil
}

func (s *surface) Image(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	s.ctx.DrawImage(x, y, img, canvas.DPMM(1.0))
}

func (s *surface) Raster() *image.RGBA {
	return rasterizer.Draw(s.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

func (s *surface) PDF() ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, float64(s.width), float64(s.height), nil)
	s.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
