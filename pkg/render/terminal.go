package render

import (
	"image/color"
	"math"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalRenderer presents framebuffers on a terminal using half-block
// cells, two pixels per cell.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int
	height int
}

// NewTerminalRenderer creates a renderer for a width x height cell area.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel size matching the cell area.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// SetSize follows a terminal resize.
func (t *TerminalRenderer) SetSize(width, height int) {
	t.width, t.height = width, height
	t.term.Erase()
	t.term.Resize(width, height)
}

// Size returns the cell area.
func (t *TerminalRenderer) Size() (width, height int) {
	return t.width, t.height
}

// Render copies fb into the terminal's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.term, uv.Rect(0, 0, t.width, t.height))
}

// Screen exposes the cell buffer for overlays drawn after Render.
func (t *TerminalRenderer) Screen() uv.Screen {
	return t.term
}

// Flush writes pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg=top pixel and bg=bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < r.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(x, topY)),
					Bg: rgbaToColor(r.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// DrawText writes a single line of text starting at (x, y), clipped to
// the screen bounds.
func DrawText(scr uv.Screen, x, y int, text string, fg, bg color.RGBA) {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for _, ch := range text {
		if x >= bounds.Max.X {
			return
		}
		if x >= bounds.Min.X {
			scr.SetCell(x, y, &uv.Cell{
				Content: string(ch),
				Width:   1,
				Style:   uv.Style{Fg: rgbaToColor(fg), Bg: rgbaToColor(bg)},
			})
		}
		x++
	}
}

// CellToPixel maps a terminal cell to the framebuffer pixel at its upper
// half.
func CellToPixel(col, row int) (x, y int) {
	return col, row * 2
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// LerpColor mixes a toward b by t in [0, 1].
func LerpColor(a, b Color, t float64) Color {
	return RGB(
		uint8(float64(a.R)+(float64(b.R)-float64(a.R))*t),
		uint8(float64(a.G)+(float64(b.G)-float64(a.G))*t),
		uint8(float64(a.B)+(float64(b.B)-float64(a.B))*t),
	)
}

// ScaleColor multiplies a color by intensity, clamping at white.
func ScaleColor(c Color, intensity float64) Color {
	return RGB(
		channel(float64(c.R)/255*intensity),
		channel(float64(c.G)/255*intensity),
		channel(float64(c.B)/255*intensity),
	)
}

// channel converts a linear [0, 1] value to a byte, clamping both ends.
func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
