package labels

import (
	"image"
	"image/color"
	"math"
	"sync"
)

// KernelSize 是预计算核图像的边长（中心到边缘 100 像素）。
const KernelSize = 200

// heatAlpha 是热力图核叠加时的不透明度。
const heatAlpha = 0xA0

var (
	labelStops = []color.RGBA{
		{0xff, 0xff, 0xff, 0xff},
		{0x00, 0x00, 0x00, 0xff},
	}
	heatStops = []color.RGBA{
		{0x00, 0x00, 0x00, 0xff}, // black
		{0xff, 0x00, 0x00, 0xff}, // red
		{0xff, 0xa5, 0x00, 0xff}, // orange
		{0xff, 0xff, 0x00, 0xff}, // yellow
		{0x90, 0xee, 0x90, 0xff}, // light green
		{0x00, 0x8b, 0x8b, 0xff}, // dark cyan
		{0x00, 0x00, 0xff, 0xff}, // blue
	}
)

var (
	kernelsOnce sync.Once
	labelKernel *image.RGBA
	heatKernel  *image.RGBA
)

// Kernels returns the shared label and heat-map kernels. They are computed
// once and must not be modified.
func Kernels() (label, heat *image.RGBA) {
	kernelsOnce.Do(func() {
		labelKernel = radialKernel(labelStops, 0xff)
		heatKernel = radialKernel(heatStops, heatAlpha)
	})
	return labelKernel, heatKernel
}

// radialKernel 生成以中心为起点的径向渐变，颜色按 stops 均匀分布，
// 半径之外完全透明；结果为预乘 alpha。
func radialKernel(stops []color.RGBA, alpha uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, KernelSize, KernelSize))
	radius := float64(KernelSize) / 2
	for y := 0; y < KernelSize; y++ {
		for x := 0; x < KernelSize; x++ {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			t := math.Hypot(dx, dy) / radius
			if t > 1 {
				continue
			}
			c := gradientAt(stops, t)
			a := float64(alpha) / 255
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(float64(c.R) * a)),
				G: uint8(math.Round(float64(c.G) * a)),
				B: uint8(math.Round(float64(c.B) * a)),
				A: alpha,
			})
		}
	}
	return img
}

func gradientAt(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 1 || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}
