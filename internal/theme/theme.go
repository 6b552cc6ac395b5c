// ABOUTME: Accent color extraction from cover art
// ABOUTME: Palette via K-means, most saturated entry returned as HSL
package theme

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// Accent is a dominant color in HSL. H is degrees [0, 360), S and L
// are fractions [0, 1].
type Accent struct {
	H float64
	S float64
	L float64
}

// DefaultAccent is the neutral accent used when no cover is available
// or extraction fails.
func DefaultAccent() Accent {
	return Accent{H: 0, S: 0, L: 0.6}
}

// FromCover extracts the accent color from raw cover image bytes: the
// most saturated entry of a small K-means palette. Any failure falls
// back to the default accent.
func FromCover(data []byte) Accent {
	if len(data) == 0 {
		return DefaultAccent()
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("Theme: cover decode failed: %v", err)
		return DefaultAccent()
	}
	return FromImage(img)
}

// FromImage extracts the accent color from a decoded image. The
// default chroma-key background masks are skipped: they treat white,
// black, and green as backdrop, and a solid-color cover in one of
// those hues would mask away to nothing.
func FromImage(img image.Image) Accent {
	items, err := prominentcolor.KmeansWithAll(prominentcolor.DefaultK, img,
		prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(items) == 0 {
		if err != nil {
			log.Printf("Theme: palette extraction failed: %v", err)
		}
		return DefaultAccent()
	}

	best := DefaultAccent()
	bestSat := -1.0
	for _, item := range items {
		c := colorful.Color{
			R: float64(item.Color.R) / 255,
			G: float64(item.Color.G) / 255,
			B: float64(item.Color.B) / 255,
		}
		h, s, l := c.Hsl()
		if s > bestSat {
			bestSat = s
			best = Accent{H: h, S: s, L: l}
		}
	}
	return best
}

// Color converts the accent back to an RGB color for rendering.
func (a Accent) Color() colorful.Color {
	return colorful.Hsl(a.H, a.S, a.L)
}

// Hex returns the accent as a #rrggbb string.
func (a Accent) Hex() string {
	return a.Color().Hex()
}
