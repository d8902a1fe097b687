// Package material maps jewelry finishes to surface reflectance profiles.
package material

import (
	"image/color"
	"strings"
)

// Finish colors. White gold and platinum share a tone.
var (
	ColorWhiteGold  = color.RGBA{0xE5, 0xE4, 0xE2, 0xFF}
	ColorRoseGold   = color.RGBA{0xB7, 0x6E, 0x79, 0xFF}
	ColorYellowGold = color.RGBA{0xD4, 0xAF, 0x37, 0xFF}
	ColorPlatinum   = color.RGBA{0xE5, 0xE4, 0xE2, 0xFF}

	// ColorDefault is used for any finish name that matches nothing.
	ColorDefault = ColorYellowGold

	// ColorGem is the base color of every stone.
	ColorGem = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// finishTones is checked in order; the first keyword contained in the
// finish name wins.
var finishTones = []struct {
	keyword string
	color   color.RGBA
}{
	{"white", ColorWhiteGold},
	{"rose", ColorRoseGold},
	{"yellow", ColorYellowGold},
	{"platinum", ColorPlatinum},
}

// Finishes lists the catalog finish names a viewer can be started with.
var Finishes = []string{
	"18K White Gold",
	"18K Rose Gold",
	"18K Yellow Gold",
	"Platinum",
}

// ResolveColor returns the metal tone for a finish name such as
// "18K Rose Gold". Matching is case-insensitive; unknown names resolve
// to ColorDefault.
func ResolveColor(finish string) color.RGBA {
	name := strings.ToLower(finish)
	for _, ft := range finishTones {
		if strings.Contains(name, ft.keyword) {
			return ft.color
		}
	}
	return ColorDefault
}

// Hex formats a color as #RRGGBB.
func Hex(c color.RGBA) string {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0F]
	}
	return string(b)
}
