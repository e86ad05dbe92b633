package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-day-planner/internal/util"
)

// DefaultWidth is used when the terminal size is unknown or too narrow
const DefaultWidth = 74

// Sizer answers layout questions for a terminal of Width x Height cells
type Sizer struct {
	Width  int
	Height int
}

// NewSizer creates a sizer for a known terminal size
func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer measures stdout, falling back to DefaultWidth x 24
func TerminalSizer() *Sizer {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		w, h = DefaultWidth+8, 24
	}
	return NewSizer(w, h)
}

// displayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (s Sizer) displayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.displayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// GetMaxWidth is the drawable width inside the margins
func (s Sizer) GetMaxWidth() int {
	termWidth := s.Width
	if termWidth < 60 {
		termWidth = DefaultWidth + 8
	}

	maxWidth := termWidth - 8 // Leave some margin
	if maxWidth > 120 {
		maxWidth = 120
	}

	util.LogDebugf("GetMaxWidth %d", maxWidth)
	return maxWidth
}

// GetAvailableLines returns the rows left for the task list
func (s Sizer) GetAvailableLines(headerLines, footerLines int) int {
	n := s.Height - headerLines - footerLines
	if n < 0 {
		return 0
	}
	return n
}

// GetProgressBarWidth sizes the completion bar to a third of the drawable width
func (s Sizer) GetProgressBarWidth() int {
	w := s.GetMaxWidth() / 3
	if w < 12 {
		w = 12
	}
	return w
}
