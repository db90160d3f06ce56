package coverflow

// Position classifies a card relative to the active card.
//
// It is the only coupling between the carousel model and layout: the three
// visible slots (Prev, Active, Next) are laid out individually, everything
// further away collapses into Hidden.
type Position int

const (
	// Hidden is any card more than one step away from the active card
	Hidden Position = iota
	// Prev is the card immediately before the active card
	Prev
	// Active is the card currently in focus
	Active
	// Next is the card immediately after the active card
	Next
)

func (p Position) String() string {
	switch p {
	case Active:
		return "active"
	case Prev:
		return "prev"
	case Next:
		return "next"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Bounds reports whether navigation can move any further.
//
// Carousel implements Bounds; the gesture tracker consults it when deciding
// whether a drag commits.
type Bounds interface {
	AtStart() bool
	AtEnd() bool
}

// Carousel owns the active index and the item count.
//
// Every operation is total: navigating past either end, or to an index that
// does not exist, leaves the carousel untouched. Items themselves are opaque,
// the carousel only ever needs their count.
type Carousel struct {
	count int
	index int
}

// NewCarousel creates a carousel of count items with the first item active.
// A negative count is treated as empty.
func NewCarousel(count int) *Carousel {
	return &Carousel{count: max(count, 0)}
}

// Count returns the number of items.
func (c *Carousel) Count() int {
	return c.count
}

// Current returns the active index. ok is false when the carousel is empty.
func (c *Carousel) Current() (index int, ok bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.index, true
}

// Next activates the following item. It reports whether the index changed.
func (c *Carousel) Next() bool {
	if c.index >= c.count-1 {
		return false
	}
	c.index++
	return true
}

// Prev activates the preceding item. It reports whether the index changed.
func (c *Carousel) Prev() bool {
	if c.count == 0 || c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// GoTo activates the item at index. Stale or out of range indices are ignored.
// It reports whether the index changed.
func (c *Carousel) GoTo(index int) bool {
	if index < 0 || index >= c.count || index == c.index {
		return false
	}
	c.index = index
	return true
}

// SetCount replaces the item count, pulling the active index back into range
// when the carousel shrinks.
func (c *Carousel) SetCount(count int) {
	c.count = max(count, 0)
	if c.index > c.count-1 {
		c.index = max(c.count-1, 0)
	}
}

// RelativePosition classifies item i against the active index.
func (c *Carousel) RelativePosition(i int) Position {
	if c.count == 0 || i < 0 || i >= c.count {
		return Hidden
	}
	switch i - c.index {
	case 0:
		return Active
	case -1:
		return Prev
	case 1:
		return Next
	default:
		return Hidden
	}
}

// AtStart reports whether the first item is active. An empty carousel is at
// both ends.
func (c *Carousel) AtStart() bool {
	return c.count == 0 || c.index == 0
}

// AtEnd reports whether the last item is active.
func (c *Carousel) AtEnd() bool {
	return c.count == 0 || c.index == c.count-1
}
