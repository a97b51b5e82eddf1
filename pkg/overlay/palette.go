package overlay

import (
	"image/color"

	"gonum.org/v1/gonum/floats"
)

//Palette is a fixed list of colors assigned to persons by id.
//Ids further apart than the palette size share colors.
type Palette []color.RGBA

//Color returns the color of the person with given id
func (p Palette) Color(id int) color.RGBA {
	i := id % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

//jetSegment is a piecewise linear channel of the jet colormap: (x, value) control points
type jetSegment [][2]float64

var (
	jetRed   = jetSegment{{0, 0}, {0.35, 0}, {0.66, 1}, {0.89, 1}, {1, 0.5}}
	jetGreen = jetSegment{{0, 0}, {0.125, 0}, {0.375, 1}, {0.64, 1}, {0.91, 0}, {1, 0}}
	jetBlue  = jetSegment{{0, 0.5}, {0.11, 1}, {0.34, 1}, {0.65, 0}, {1, 0}}
)

func (s jetSegment) at(x float64) float64 {
	for i := 1; i < len(s); i++ {
		if x <= s[i][0] {
			x0, y0 := s[i-1][0], s[i-1][1]
			x1, y1 := s[i][0], s[i][1]
			return y0 + (x-x0)*(y1-y0)/(x1-x0)
		}
	}
	return s[len(s)-1][1]
}

//NewJetPalette samples n evenly spaced colors of the jet colormap, from dark blue to dark red
func NewJetPalette(n int) Palette {
	if n < 1 {
		n = 1
	}

	xs := make([]float64, n)
	if n == 1 {
		xs[0] = 0
	} else {
		floats.Span(xs, 0, 1)
	}

	p := make(Palette, n)
	for i, x := range xs {
		p[i] = color.RGBA{
			R: uint8(jetRed.at(x) * 255),
			G: uint8(jetGreen.at(x) * 255),
			B: uint8(jetBlue.at(x) * 255),
			A: 255,
		}
	}
	return p
}
