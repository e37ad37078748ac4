package place

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ByLCY/ocrsynth/content"
)

func TestOverlapScenarios(t *testing.T) {
	assert.False(t, Overlaps(content.R(0, 0, 10, 10), content.R(20, 20, 30, 30)))
	assert.True(t, Overlaps(content.R(0, 0, 10, 10), content.R(5, 5, 15, 15)))
}

func TestAdmissibleUsesMargin(t *testing.T) {
	placed := []content.Area{{Kind: content.KindPhrase, Rect: content.R(0, 0, 10, 10)}}
	// 相距 4 像素：无边距时可放置，边距 5 时被拒绝。
	candidate := content.R(14, 0, 30, 10)
	assert.True(t, Admissible(candidate, placed, 0))
	assert.False(t, Admissible(candidate, placed, DefaultMargin))
	assert.True(t, Admissible(content.R(40, 40, 50, 50), placed, DefaultMargin))
	assert.True(t, Admissible(candidate, nil, DefaultMargin))
}

func TestFits(t *testing.T) {
	bounds := content.R(0, 0, 100, 50)
	assert.True(t, Fits(content.R(5, 5, 95, 45), bounds, 5))
	assert.False(t, Fits(content.R(5, 5, 96, 45), bounds, 5), "right edge beyond width-margin")
	assert.False(t, Fits(content.R(5, 5, 95, 46), bounds, 5), "bottom edge beyond height-margin")
	// 左上边缘不留边距
	assert.True(t, Fits(content.R(0, 0, 20, 20), bounds, 5))
	assert.True(t, Fits(content.R(2, 3, 95, 45), bounds, 5))
	assert.False(t, Fits(content.R(-1, 5, 20, 20), bounds, 5))
	assert.False(t, Fits(content.R(5, -0.5, 20, 20), bounds, 5))
}

func TestBudgetExhaustsAfterCeiling(t *testing.T) {
	b := NewBudget(3)
	assert.False(t, b.Fail())
	assert.False(t, b.Fail())
	assert.False(t, b.Fail())
	assert.True(t, b.Fail())
	assert.Equal(t, 4, b.Failures())
	assert.Equal(t, DefaultCeiling, NewBudget(0).Ceiling)
}
