package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

func (m model) playbackState() state {
	switch {
	case m.composing:
		return stateComposing
	case m.playing:
		return statePlaying
	default:
		return stateStopped
	}
}

// note describes what the loop is doing: engine, state, the lit symbol and
// its voice, failed utterances and cache usage.
func (m model) note() string {
	parts := []string{m.deps.Speaker.Engine().Name, m.playbackState().String()}

	if m.lit >= 0 && m.lit < len(m.symbols) {
		sym := m.symbols[m.lit]
		current := fmt.Sprintf("%q", sym.Text)
		if sym.Utterance == nil {
			current += " (silent)"
		} else if id := sym.Utterance.VoiceID(); id != "" {
			current += " " + id
		}
		parts = append(parts, current)
	}

	if failed := m.deps.Speaker.Stats().Failures; failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}

	if m.deps.CacheStats != nil {
		st := m.deps.CacheStats()
		parts = append(parts, fmt.Sprintf("cache %.0f%% %s",
			st.HitRate()*100, humanize.Bytes(uint64(max(st.Size, 0))))) //nolint:gosec
	}

	return strings.Join(parts, " · ")
}

func (m model) statusBarView() string {
	showStatusMessage := m.statusMessage != ""

	logo := logoView()
	helpNote := statusBarHelpStyle(" ? Help ")

	note := m.note()
	if showStatusMessage {
		note = m.statusMessage
	}
	note = " " + note + " "
	if m.width > 0 {
		note = truncate.StringWithTail(note, uint(max(0, //nolint:gosec
			m.width-
				ansi.PrintableRuneWidth(logo)-
				ansi.PrintableRuneWidth(helpNote),
		)), ellipsis)
	}
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	// Empty space
	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = statusBarMessageStyle(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	return logo + note + emptySpace + helpNote
}
