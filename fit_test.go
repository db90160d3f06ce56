package coverflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// linear grows content proportionally with the font size: 10 units wide and
// 2 units tall per point.
func linear(size int) (float64, float64) {
	return float64(size) * 10, float64(size) * 2
}

func TestFit_LargestFittingSize(t *testing.T) {
	// everything up to 18 fits, nothing above
	measure := func(size int) (float64, float64) {
		if size <= 18 {
			return 100, 40
		}
		return 101, 41
	}

	assert.Equal(t, 18, Fit(100, 40, measure, QuoteFitOptions()))
}

func TestFit_MatchesExhaustiveSearch(t *testing.T) {
	opts := QuoteFitOptions()

	for limit := opts.Min; limit <= opts.Max; limit++ {
		width := float64(limit) * 10
		got := Fit(width, 1000, linear, opts)
		assert.Equal(t, limit, got, "width limit for size %d", limit)
	}
}

func TestFit_HeightBound(t *testing.T) {
	// width allows 24 but height only 15
	assert.Equal(t, 15, Fit(1000, 31, linear, QuoteFitOptions()))
}

func TestFit_NothingFits(t *testing.T) {
	got := Fit(5, 5, linear, QuoteFitOptions())
	assert.Equal(t, 11, got, "falls one step below the floor")

	got = Fit(5, 5, linear, FitOptions{Min: 12, Max: 24, Step: 2})
	assert.GreaterOrEqual(t, got, 12-2)
	assert.Less(t, got, 12)
}

func TestFit_EverythingFits(t *testing.T) {
	assert.Equal(t, 24, Fit(1e6, 1e6, linear, QuoteFitOptions()))
	assert.Equal(t, 200, Fit(1e6, 1e6, linear, DefaultFitOptions()))
}

func TestFit_ZeroStepDefaultsToOne(t *testing.T) {
	assert.Equal(t, 18, Fit(180, 1000, linear, FitOptions{Min: 12, Max: 24}))
}

func TestFit_ProbesAreBounded(t *testing.T) {
	probes := 0
	measure := func(size int) (float64, float64) {
		probes++
		assert.GreaterOrEqual(t, size, 10)
		assert.LessOrEqual(t, size, 200)
		return linear(size)
	}

	Fit(730, 1e6, measure, DefaultFitOptions())
	assert.LessOrEqual(t, probes, 8, "binary search over 191 sizes")
}
