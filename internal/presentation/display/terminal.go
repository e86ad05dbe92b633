// Package display owns the terminal while the interactive day view runs.
package display

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/penwyp/go-day-planner/internal/presentation/layout"
	"github.com/penwyp/go-day-planner/internal/util"
)

const (
	enterAltScreen = "\033[?1049h"
	exitAltScreen  = "\033[?1049l"
)

// DisplayConfig selects the layout and screen handling
type DisplayConfig struct {
	LayoutStyle int
	// AltScreen renders in the alternate screen buffer
	AltScreen bool
}

// TerminalDisplay renders frames with a layout strategy, skipping frames
// identical to the previous one.
type TerminalDisplay struct {
	mu                sync.Mutex
	out               io.Writer
	config            *DisplayConfig
	strategy          layout.LayoutStrategy
	inAlternateScreen bool
	previousScreen    string
}

func NewTerminalDisplay(out io.Writer, config *DisplayConfig) *TerminalDisplay {
	if config == nil {
		config = &DisplayConfig{}
	}
	return &TerminalDisplay{
		out:      out,
		config:   config,
		strategy: layout.GetLayoutStrategy(config.LayoutStyle),
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if td.inAlternateScreen || !td.config.AltScreen {
		return
	}
	fmt.Fprint(td.out, enterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
	td.inAlternateScreen = true
	td.previousScreen = ""
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+exitAltScreen)
	td.inAlternateScreen = false
}

// Render draws one frame. It reports whether anything was written.
func (td *TerminalDisplay) Render(screen layout.Screen, sizer *layout.Sizer) (bool, error) {
	var buf bytes.Buffer
	if err := td.strategy.Render(&buf, screen, sizer); err != nil {
		return false, err
	}
	frame := buf.String()

	td.mu.Lock()
	defer td.mu.Unlock()
	if frame == td.previousScreen {
		return false, nil
	}
	td.previousScreen = frame

	if td.inAlternateScreen {
		// raw mode disables output post-processing, so lines need \r
		frame = util.MoveCursorHome + util.ClearScreen + strings.ReplaceAll(frame, "\n", "\r\n")
	}
	_, err := io.WriteString(td.out, frame)
	return true, err
}
