package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Document space is measured in pixels. The canvas backend renders one
// canvas millimetre per pixel, so a pixel font size maps to points through
// MmToPt.

// Unit is the unit a length was written in.
type Unit int

const (
	UnitNone    Unit = iota // 无单位，按像素处理
	UnitPX
	UnitMM
	UnitCM
	UnitIN
	UnitPT
	UnitPercent
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// DefaultDPI is used when a profile gives physical lengths without a dpi.
const DefaultDPI = 96.0

// 后缀顺序无关紧要：各后缀互不为后缀。
var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{
	{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"%", UnitPercent},
}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// perInch 是每英寸包含的该单位数量；像素类单位返回 0。
func (u Unit) perInch() float64 {
	switch u {
	case UnitMM:
		return 25.4
	case UnitCM:
		return 2.54
	case UnitIN:
		return 1
	case UnitPT:
		return 72
	}
	return 0
}

// Length is a number together with the unit it was written in.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ToPX converts physical units at dpi (DefaultDPI when dpi <= 0). Pixel
// and unit-less values pass through.
func (l Length) ToPX(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if n := l.Unit.perInch(); n > 0 {
		return l.Value / n * dpi
	}
	return l.Value
}

// FontPt converts a pixel font size to the point size the canvas backend
// expects.
func FontPt(px float64) float64 { return px * MmToPt }

// ParseLength 解析 "210mm"、"8.5in"、"640" 之类的长度，单位不区分大小写。
func ParseLength(s string) (Length, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	l := Length{Unit: UnitNone}
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(text, suf.suffix) {
			l.Unit = suf.unit
			text = strings.TrimSpace(strings.TrimSuffix(text, suf.suffix))
			break
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无效的长度 %q", s)
	}
	l.Value = v
	return l, nil
}
