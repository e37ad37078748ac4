package content

import (
	"image"
	"math"
)

// Rect 是文档像素空间中的轴对齐矩形，Top 小于 Bottom（y 轴向下）。
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// R is shorthand for a Rect literal.
func R(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (r Rect) Width() float64   { return r.Right - r.Left }
func (r Rect) Height() float64  { return r.Bottom - r.Top }
func (r Rect) CenterX() float64 { return r.Left + r.Width()/2 }
func (r Rect) CenterY() float64 { return r.Top + r.Height()/2 }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Inflate 向四周扩展 dx/dy（负值收缩）。
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{Left: r.Left - dx, Top: r.Top - dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Offset 平移矩形。
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Union 返回同时包含 r 与 o 的最小矩形。零值矩形视为“尚未初始化”，直接返回另一方。
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	if o == (Rect{}) {
		return r
	}
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Overlaps reports whether two rectangles share any point. Rectangles that
// only touch along an edge count as overlapping.
func (r Rect) Overlaps(o Rect) bool {
	separated := r.Left > o.Right ||
		o.Left > r.Right ||
		r.Top > o.Bottom ||
		o.Top > r.Bottom
	return !separated
}

// Within reports whether r lies entirely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.Left >= outer.Left &&
		r.Top >= outer.Top &&
		r.Right <= outer.Right &&
		r.Bottom <= outer.Bottom
}

// Image 截断为整数像素矩形（向外取整）。
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)),
		int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)),
		int(math.Ceil(r.Bottom)),
	)
}
