package post

import (
	"image"
	"math"
)

// Blur applies a separable Gaussian blur with standard deviations sx and sy
// (pixels). Edges are clamped. Sub-images are left untouched.
func Blur(img *image.RGBA, sx, sy float64) {
	b := img.Bounds()
	if b.Empty() || img.Stride != b.Dx()*4 {
		return
	}
	tmp := make([]float64, len(img.Pix))
	for i, v := range img.Pix {
		tmp[i] = float64(v)
	}
	w, h := b.Dx(), b.Dy()
	if k := kernel(sx); len(k) > 1 {
		tmp = convolve(tmp, w, h, k, 4, w*4)
	}
	if k := kernel(sy); len(k) > 1 {
		tmp = convolve(tmp, h, w, k, w*4, 4)
	}
	for i, v := range tmp {
		img.Pix[i] = clampByte(v)
	}
}

// kernel 返回半径 ceil(3σ) 的归一化高斯核。
func kernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range k {
		d := float64(i - radius)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// convolve 沿一个轴做一维卷积。n 是该轴长度，m 是另一轴长度，
// step 是沿卷积轴相邻像素的偏移，stride 是另一轴相邻像素的偏移。
func convolve(src []float64, n, m int, k []float64, step, stride int) []float64 {
	dst := make([]float64, len(src))
	radius := len(k) / 2
	for j := 0; j < m; j++ {
		base := j * stride
		for i := 0; i < n; i++ {
			var acc [4]float64
			for t, weight := range k {
				p := i + t - radius
				if p < 0 {
					p = 0
				} else if p >= n {
					p = n - 1
				}
				off := base + p*step
				acc[0] += src[off+0] * weight
				acc[1] += src[off+1] * weight
				acc[2] += src[off+2] * weight
				acc[3] += src[off+3] * weight
			}
			off := base + i*step
			copy(dst[off:off+4], acc[:])
		}
	}
	return dst
}
