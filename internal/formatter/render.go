package formatter

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 80

// Render renders markdown for the terminal, wrapping at width. Any renderer failure returns md unchanged.
func Render(md string, width int) string {
	return render(md, width, glamour.WithAutoStyle())
}

// RenderStyle is [Render] with a named glamour style ("dark", "light", "notty", ...).
func RenderStyle(md string, width int, style string) string {
	return render(md, width, glamour.WithStandardStyle(style))
}

func render(md string, width int, style glamour.TermRendererOption) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Image sizes used by the list, card and detail views.
const (
	ImageWidth      = 800
	ImageHeight     = 600
	ThumbnailWidth  = 400
	ThumbnailHeight = 300
	HeroWidth       = 1200
	HeroHeight      = 800
)

// ImageSeed maps a destination name to a stable number in [0, 1000).
//
// The hash runs over UTF-16 code units with 32-bit wraparound so browser clients pick the same image.
func ImageSeed(name string) int {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v % 1000)
}

// ImageURL returns a picsum.photos URL seeded by name. Non-positive sizes fall back to 800x600.
func ImageURL(name string, width, height int) string {
	if width <= 0 || height <= 0 {
		width, height = ImageWidth, ImageHeight
	}
	return fmt.Sprintf("https://picsum.photos/seed/%d/%d/%d", ImageSeed(name), width, height)
}

// ThumbnailURL is [ImageURL] at card size.
func ThumbnailURL(name string) string { return ImageURL(name, ThumbnailWidth, ThumbnailHeight) }

// HeroURL is [ImageURL] at detail-view size.
func HeroURL(name string) string { return ImageURL(name, HeroWidth, HeroHeight) }
