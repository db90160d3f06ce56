package deck

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard_BackgroundColor(t *testing.T) {
	tests := []struct {
		background string
		want       color.RGBA
	}{
		{"#fdf2e9", color.RGBA{0xfd, 0xf2, 0xe9, 0xff}},
		{"#ABC", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}},
		{"", color.RGBA{0xf8, 0xf9, 0xfa, 0xff}},
		{"tomato", color.RGBA{0xf8, 0xf9, 0xfa, 0xff}},
		{"#zzzzzz", color.RGBA{0xf8, 0xf9, 0xfa, 0xff}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Card{Background: tt.background}.BackgroundColor(), tt.background)
	}
}

func TestCard_Initials(t *testing.T) {
	assert.Equal(t, "AB", Card{Name: "Ada Brennan"}.Initials())
	assert.Equal(t, "ML", Card{Name: "Mei-Ling Cho"}.Initials())
	assert.Equal(t, "TR", Card{Name: "Tomás Ríos"}.Initials())
	assert.Equal(t, "", Card{}.Initials())
}

func TestSample(t *testing.T) {
	cards := Sample()
	assert.Len(t, cards, 5)
	for _, c := range cards {
		assert.NotEmpty(t, c.Quote)
		assert.NotEmpty(t, c.Name)
	}
}
