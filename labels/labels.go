// Package labels derives the dense training targets of a run from its
// content model: a probability label raster, a heat map and a character
// box overview.
package labels

import (
	"fmt"
	"image"
	"image/color"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"

	"github.com/ByLCY/ocrsynth/content"
	"github.com/ByLCY/ocrsynth/renderer"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.labels")
}

// Raster colours.
var (
	LabelBackground   = color.RGBA{A: 0xff}
	HeatMapBackground = color.RGBA{B: 0xff, A: 0xff}
	CharacterBox      = color.NRGBA{R: 0, G: 100, B: 255, A: 220}
	WordBox           = color.NRGBA{R: 0, G: 255, B: 50, A: 220}
)

// Options 选择需要生成的辅助图像；标签图总是生成。
type Options struct {
	HeatMap bool
	Boxes   bool
}

// Rasters are the auxiliary images of one run. Unrequested ones are nil.
type Rasters struct {
	Label   *image.RGBA
	HeatMap *image.RGBA
	Boxes   *image.RGBA
}

// StampRect 是核图像实际覆盖的区域：在字符紧致矩形基础上上下各扩 2 像素、右侧扩 1 像素。
func StampRect(cropped content.Rect) image.Rectangle {
	return content.R(cropped.Left, cropped.Top-2, cropped.Right+1, cropped.Bottom+2).Image()
}

// Label renders the probability label raster: a black page with the label
// kernel stamped on every character.
func Label(model *content.Model, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(LabelBackground), image.Point{}, draw.Src)
	label, _ := Kernels()
	for _, c := range model.Characters() {
		stamp(img, label, c.Cropped)
	}
	return img
}

// Render produces the requested rasters. The heat map and box overview
// redraw the model's text through backend.
func Render(model *content.Model, width, height int, backend renderer.Backend, opts Options) (*Rasters, error) {
	out := &Rasters{Label: Label(model, width, height)}
	if opts.HeatMap {
		img, err := HeatMap(model, width, height, backend)
		if err != nil {
			return nil, err
		}
		out.HeatMap = img
	}
	if opts.Boxes {
		img, err := Boxes(model, width, height, backend)
		if err != nil {
			return nil, err
		}
		out.Boxes = img
	}
	tracer().Debugf("labels: %d characters stamped", len(model.Characters()))
	return out, nil
}

// HeatMap 在蓝色背景上绘制黑色文字，再以半透明热力核覆盖每个字符。
func HeatMap(model *content.Model, width, height int, backend renderer.Backend) (*image.RGBA, error) {
	s := backend.NewSurface(width, height)
	s.Clear(HeatMapBackground)
	if err := drawText(s, model); err != nil {
		return nil, fmt.Errorf("绘制热力图文字失败: %w", err)
	}
	img := s.Raster()
	_, heat := Kernels()
	for _, c := range model.Characters() {
		stamp(img, heat, c.Cropped)
	}
	return img, nil
}

// Boxes 绘制白底黑字，并勾出字符框与（外扩 2 像素的）单词框。
func Boxes(model *content.Model, width, height int, backend renderer.Backend) (*image.RGBA, error) {
	s := backend.NewSurface(width, height)
	s.Clear(color.White)
	if err := drawText(s, model); err != nil {
		return nil, fmt.Errorf("绘制字符框图失败: %w", err)
	}
	for _, w := range model.Words() {
		for _, c := range w.Characters {
			s.StrokeRect(c.Cropped, 1, CharacterBox)
		}
	}
	for _, w := range model.Words() {
		s.StrokeRect(w.Cropped().Inflate(2, 2), 1, WordBox)
	}
	return s.Raster(), nil
}

func drawText(s renderer.Surface, model *content.Model) error {
	for _, w := range model.Words() {
		if len(w.Characters) == 0 {
			continue
		}
		if err := s.Text(w.Text, w.Font, w.Characters[0].Rect.Left, w.Baseline, color.Black); err != nil {
			return err
		}
	}
	return nil
}

func stamp(dst *image.RGBA, kernel *image.RGBA, cropped content.Rect) {
	r := StampRect(cropped)
	if r.Empty() || !r.Overlaps(dst.Bounds()) {
		return
	}
	draw.BiLinear.Scale(dst, r, kernel, kernel.Bounds(), draw.Over, nil)
}
