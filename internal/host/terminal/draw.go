package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/problemnav/internal/marker"
)

var (
	styleText    = tcell.StyleDefault
	styleGutter  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBox     = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleBoxHead = styleBox.Bold(true)
)

func severityStyle(s marker.Severity) tcell.Style {
	switch s {
	case marker.SeverityError:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case marker.SeverityWarning:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case marker.SeverityInformation:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

// gutterWidth is the icon column, the line number and a space.
const gutterWidth = 7

func (h *Host) textHeight() int {
	_, height := h.screen.Size()
	return max(1, height-1)
}

// Draw renders the active document, overlay and status line.
func (h *Host) Draw() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.screen.Clear()
	width, height := h.screen.Size()

	if h.active == nil {
		h.drawStatusLocked(width, height, "no document")
		h.screen.Show()
		return
	}

	ed := h.active
	lines := h.documents[ed.doc]
	worst := worstByLine(h.provider.Markers(ed.doc))
	textHeight := max(1, height-1)

	cursorRow := -1
	for row := 0; row < textHeight; row++ {
		lineNo := ed.top + row
		if lineNo >= len(lines) {
			break
		}

		if sev, ok := worst[lineNo]; ok {
			h.screen.SetContent(0, row, []rune(sev.Icon())[0], nil, severityStyle(sev))
		}
		drawString(h.screen, 1, row, gutterWidth-1, fmt.Sprintf("%5d ", lineNo+1), styleGutter)
		drawString(h.screen, gutterWidth, row, width-gutterWidth, lines[lineNo], styleText)

		if lineNo == ed.cursor.Line {
			cursorRow = row
		}
	}

	if cursorRow >= 0 {
		h.screen.ShowCursor(gutterWidth+ed.cursor.Column, cursorRow)
		h.drawOverlayLocked(width, textHeight, cursorRow)
	} else {
		h.screen.HideCursor()
	}

	status := fmt.Sprintf("%s %d:%d", ed.doc, ed.cursor.Line+1, ed.cursor.Column+1)
	if h.status != "" {
		status += "  " + h.status
	}
	h.drawStatusLocked(width, height, status)
	h.screen.Show()
}

// drawOverlayLocked draws the overlay box below the cursor row, or above it
// when there is no room.
func (h *Host) drawOverlayLocked(width, textHeight, cursorRow int) {
	if h.overlay.kind == boxNone || len(h.overlay.lines) == 0 {
		return
	}

	rows := h.overlay.lines
	if h.overlay.title != "" {
		rows = append([]string{h.overlay.title}, rows...)
	}

	top := cursorRow + 1
	if top+len(rows) > textHeight {
		top = max(0, cursorRow-len(rows))
	}

	boxWidth := width - gutterWidth
	for i, text := range rows {
		style := styleBox
		if h.overlay.title != "" && i == 0 {
			style = styleBoxHead
		}
		fill(h.screen, gutterWidth, top+i, boxWidth, style)
		drawString(h.screen, gutterWidth+1, top+i, boxWidth-1, text, style)
	}
}

func (h *Host) drawStatusLocked(width, height int, text string) {
	row := height - 1
	fill(h.screen, 0, row, width, styleStatus)
	drawString(h.screen, 0, row, width, text, styleStatus)
}

// worstByLine returns the most severe marker severity of each line.
func worstByLine(markers []marker.Marker) map[int]marker.Severity {
	worst := make(map[int]marker.Severity)
	for _, m := range markers {
		if cur, ok := worst[m.Start.Line]; !ok || m.Severity < cur {
			worst[m.Start.Line] = m.Severity
		}
	}
	return worst
}

func drawString(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if r == '\t' {
			r, w = ' ', 1
		}
		if col+w > maxWidth {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col += w
	}
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
