package scene

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// Starfield paints a space backdrop tile: a dark vertical gradient with
// scattered stars. The same seed always yields the same image.
func Starfield(width, height int, seed uint64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := float64(y) / float64(max(1, height-1))
		row := color.RGBA{
			R: uint8(4 + 10*t),
			G: uint8(6 + 8*t),
			B: uint8(20 + 30*t),
			A: 0xff,
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, row)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))
	stars := width * height / 300
	for range stars {
		x, y := rng.IntN(width), rng.IntN(height)
		b := uint8(120 + rng.IntN(136))
		tint := rng.IntN(3)
		star := color.RGBA{R: b, G: b, B: b, A: 0xff}
		switch tint {
		case 1:
			star.B = uint8(min(255, int(b)+40))
		case 2:
			star.R = uint8(min(255, int(b)+30))
		}
		img.SetRGBA(x, y, star)

		// A few bright stars get a small cross.
		if b > 240 {
			dim := color.RGBA{R: star.R / 2, G: star.G / 2, B: star.B / 2, A: 0xff}
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				px, py := x+d[0], y+d[1]
				if image.Pt(px, py).In(img.Rect) {
					img.SetRGBA(px, py, dim)
				}
			}
		}
	}
	return img
}
