// Package place decides whether a candidate rectangle may be committed next
// to already-placed content, and bounds how many failed attempts a layout
// pass may spend before it treats the page as full.
package place

import "github.com/ByLCY/ocrsynth/content"

// Default placement parameters.
const (
	DefaultMargin  = 5
	DefaultCeiling = 1000
)

// Overlaps 使用分离轴测试：两个矩形重叠，除非一个完全位于另一个的左、右、上或下方。
func Overlaps(a, b content.Rect) bool {
	return a.Overlaps(b)
}

// Admissible reports whether candidate, inflated by margin, avoids every
// placed area.
func Admissible(candidate content.Rect, placed []content.Area, margin float64) bool {
	grown := candidate.Inflate(margin, margin)
	for _, a := range placed {
		if Overlaps(grown, a.Rect) {
			return false
		}
	}
	return true
}

// Fits reports whether candidate lies inside bounds. The margin is kept
// only at the right and bottom edges; the left and top edges need no gap.
func Fits(candidate, bounds content.Rect, margin float64) bool {
	inner := bounds
	inner.Right -= margin
	inner.Bottom -= margin
	return candidate.Within(inner)
}

// Budget 统计失败的放置尝试；超过上限即视为“页面已满”。
type Budget struct {
	Ceiling  int
	failures int
}

// NewBudget returns a budget with the given ceiling (DefaultCeiling if <= 0).
func NewBudget(ceiling int) *Budget {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Budget{Ceiling: ceiling}
}

// Fail records a failed attempt and reports whether the budget is exhausted.
func (b *Budget) Fail() bool {
	b.failures++
	return b.Exhausted()
}

// Exhausted reports whether failures exceed the ceiling.
func (b *Budget) Exhausted() bool { return b.failures > b.Ceiling }

// Failures returns the number of failed attempts so far.
func (b *Budget) Failures() int { return b.failures }
