// Package deck holds the content shown on carousel cards.
//
// The engine never looks inside a card; hosts use these to draw them.
package deck

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground is used for cards without their own colour.
const DefaultBackground = "#f8f9fa"

// Card is one testimonial.
type Card struct {
	Quote      string `mapstructure:"quote"`
	Name       string `mapstructure:"name"`
	Title      string `mapstructure:"title"`
	Avatar     string `mapstructure:"avatar"`
	Background string `mapstructure:"background"`
}

// BackgroundColor parses Background as #rgb or #rrggbb, falling back to
// DefaultBackground.
func (c Card) BackgroundColor() color.RGBA {
	if rgba, ok := parseHex(c.Background); ok {
		return rgba
	}
	rgba, _ := parseHex(DefaultBackground)
	return rgba
}

// Initials returns up to two initials from the name, used where no avatar
// image can be drawn.
func (c Card) Initials() string {
	var out []rune
	start := true
	for _, r := range c.Name {
		if r == ' ' || r == '-' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
			if len(out) == 2 {
				break
			}
		}
	}
	return string(out)
}

func parseHex(s string) (color.RGBA, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// Sample returns the built-in deck used when no cards are configured.
func Sample() []Card {
	return []Card{
		{
			Quote:      "We shipped the redesign a week early. The team finally had one place to look.",
			Name:       "Ada Brennan",
			Title:      "Head of Product, Lumen",
			Background: "#fdf2e9",
		},
		{
			Quote:      "Setup took an afternoon.",
			Name:       "Tomás Ríos",
			Title:      "CTO, Parcel Nine",
			Background: "#eaf2f8",
		},
		{
			Quote:      "I stopped dreading Monday planning. Everything we need is already on the board, sorted, with owners, and nobody has to chase updates in chat any more.",
			Name:       "Mei-Ling Cho",
			Title:      "Engineering Manager, Fieldwork",
			Background: "#e9f7ef",
		},
		{
			Quote:      "Support answered in minutes, on a Sunday.",
			Name:       "Jonas Weber",
			Title:      "Founder, Kestrel Labs",
			Background: "#f4ecf7",
		},
		{
			Quote: "It replaced three tools and a spreadsheet nobody trusted.",
			Name:  "Priya Natarajan",
			Title: "Operations Lead, Harbor",
		},
	}
}
