// Package post degrades a rendered page the way scans and photos do:
// speckle noise, Gaussian blur with a contrast pass, pixelation and full
// colour inversion. A Plan is drawn once per run and applied in a fixed
// order, so the same random source always yields the same image.
package post

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"
)

func tracer() tracing.Trace {
	return tracing.Select("ocrsynth.post")
}

// Probabilities 是各阶段的触发概率（0–100）。
type Probabilities struct {
	Noise    int `json:"noise"`
	Blur     int `json:"blur"`
	Pixelate int `json:"pixelate"`
	Invert   int `json:"invert"`
}

// Plan holds every gate and parameter of one run's degradation.
type Plan struct {
	Noise bool `json:"noise"`

	Blur  bool    `json:"blur"`
	BlurX float64 `json:"blurX,omitempty"`
	BlurY float64 `json:"blurY,omitempty"`

	Pixelate       bool    `json:"pixelate"`
	PixelateFactor float64 `json:"pixelateFactor,omitempty"`

	Invert bool `json:"invert"`
}

// Any reports whether at least one stage is on.
func (p Plan) Any() bool { return p.Noise || p.Blur || p.Pixelate || p.Invert }

// Stage parameters.
const (
	noisePercent = 5    // 每个像素被替换的概率
	noiseSigma   = 2.0  // 半高斯分布的标准差
	contrast     = 0.05 // 模糊后的对比度补偿
)

func between(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.IntN(max-min)
}

// gate 判断 probability >= rnd[1,100)。
func gate(rng *rand.Rand, probability int) bool {
	return probability >= between(rng, 1, 100)
}

// NewPlan draws the gates and parameters in fixed order: noise, blur and
// its radii, pixelation and its factor, inversion. Parameters are drawn
// only for stages that are on.
func NewPlan(rng *rand.Rand, p Probabilities) Plan {
	var plan Plan
	plan.Noise = gate(rng, p.Noise)
	if plan.Blur = gate(rng, p.Blur); plan.Blur {
		plan.BlurX = float64(between(rng, 90, 110)) / 100
		plan.BlurY = float64(between(rng, 90, 110)) / 100
	}
	if plan.Pixelate = gate(rng, p.Pixelate); plan.Pixelate {
		plan.PixelateFactor = rng.Float64()*0.2 + 1.0
	}
	plan.Invert = gate(rng, p.Invert)
	return plan
}

// Apply runs the planned stages on img in place: noise, blur with
// contrast, pixelate, invert. Noise draws its pixels from rng.
func Apply(img *image.RGBA, plan Plan, rng *rand.Rand) {
	if img == nil {
		return
	}
	if plan.Noise {
		Noise(img, rng)
	}
	if plan.Blur {
		Blur(img, plan.BlurX, plan.BlurY)
		Contrast(img, contrast)
	}
	if plan.Pixelate {
		Pixelate(img, plan.PixelateFactor)
	}
	if plan.Invert {
		Invert(img)
	}
	tracer().Debugf("post: applied %+v", plan)
}

// Noise 以小概率把像素替换为灰度值 255−|N(0,σ)|·255（截断到 0–255）。
func Noise(img *image.RGBA, rng *rand.Rand) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if between(rng, 1, 100) >= noisePercent {
				continue
			}
			v := 255 - math.Abs(rng.NormFloat64()*noiseSigma*255)
			g := clampByte(v)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = g
			img.Pix[i+1] = g
			img.Pix[i+2] = g
			img.Pix[i+3] = 0xff
		}
	}
}

// Contrast 以 (c−0.5)·(1+k)/(1−k)+0.5 调整 RGB 通道。
func Contrast(img *image.RGBA, k float64) {
	scale := (1 + k) / (1 - k)
	var lut [256]uint8
	for i := range lut {
		v := (float64(i)/255-0.5)*scale + 0.5
		lut[i] = clampByte(v * 255)
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = lut[img.Pix[i+0]]
		img.Pix[i+1] = lut[img.Pix[i+1]]
		img.Pix[i+2] = lut[img.Pix[i+2]]
	}
}

// Pixelate 以低质量滤镜缩小 factor 倍，再用最近邻放大回原尺寸。
func Pixelate(img *image.RGBA, factor float64) {
	if factor <= 1 {
		return
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) / factor)
	h := int(float64(b.Dy()) / factor)
	if w <= 0 || h <= 0 {
		return
	}
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, draw.Src, nil)
	draw.NearestNeighbor.Scale(img, b, small, small.Bounds(), draw.Src, nil)
}

// Invert 应用反色矩阵：RGB 取反，alpha 不变。
func Invert(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 255 - img.Pix[i+0]
		img.Pix[i+1] = 255 - img.Pix[i+1]
		img.Pix[i+2] = 255 - img.Pix[i+2]
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
