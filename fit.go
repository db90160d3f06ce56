package coverflow

// MeasureFunc reports the rendered content size at a candidate font size.
//
// Fit assumes the measurement is non-decreasing in size. A measurement that
// breaks this still yields a size, just not necessarily the largest fitting one.
type MeasureFunc func(size int) (width, height float64)

// FitOptions bounds the font size search.
type FitOptions struct {
	Min  int
	Max  int
	Step int
}

// DefaultFitOptions returns the general purpose range, 10 to 200 in steps of 1.
func DefaultFitOptions() FitOptions {
	return FitOptions{Min: 10, Max: 200, Step: 1}
}

// QuoteFitOptions returns the range used for card quotes, 12 to 24.
func QuoteFitOptions() FitOptions {
	return FitOptions{Min: 12, Max: 24, Step: 1}
}

// Fit binary searches [opts.Min, opts.Max] for the largest font size whose
// measured content stays within width x height. The container size must
// already exclude padding.
//
// The returned value is the upper bound once the search closes. When nothing in
// range fits it is opts.Min - opts.Step, one step below the floor, so callers
// must treat Min as advisory. Applying the size is the caller's job.
func Fit(width, height float64, measure MeasureFunc, opts FitOptions) int {
	step := opts.Step
	if step <= 0 {
		step = 1
	}
	low, high := opts.Min, opts.Max
	for low <= high {
		size := floorDiv(low+high, 2)
		w, h := measure(size)
		if w <= width && h <= height {
			low = size + step
		} else {
			high = size - step
		}
	}
	return high
}

// floorDiv rounds towards negative infinity so negative ranges probe the same
// midpoints as positive ones.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
