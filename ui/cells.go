package ui

import (
	"strings"

	"github.com/dgnsrekt/speakhost/internal/sequencer"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// cellsView draws one cell per symbol. Every row of cells takes two lines:
// the lit cell sits on the upper line while raised and on the lower line
// otherwise, which makes it bounce as raised flips.
func cellsView(symbols []sequencer.Symbol, lit int, raised bool, width int) string {
	if len(symbols) == 0 {
		return ""
	}

	var (
		rows        []string
		upper       strings.Builder
		lower       strings.Builder
		lineWidth   int
		horizontalP = cellStyle.GetHorizontalPadding()
	)

	flush := func() {
		rows = append(rows, upper.String()+"\n"+lower.String())
		upper.Reset()
		lower.Reset()
		lineWidth = 0
	}

	for _, sym := range symbols {
		text := sym.Text
		if width > horizontalP && runewidth.StringWidth(text)+horizontalP > width {
			text = truncate.StringWithTail(text, uint(width-horizontalP), ellipsis) //nolint:gosec
		}
		w := runewidth.StringWidth(text) + horizontalP

		if width > 0 && lineWidth > 0 && lineWidth+w > width {
			flush()
		}

		blank := strings.Repeat(" ", w)
		switch {
		case sym.Index == lit && raised:
			upper.WriteString(litCellStyle.Render(text))
			lower.WriteString(blank)
		case sym.Index == lit:
			upper.WriteString(blank)
			lower.WriteString(litCellStyle.Render(text))
		default:
			upper.WriteString(blank)
			lower.WriteString(cellStyle.Render(text))
		}
		lineWidth += w
	}
	flush()

	return strings.Join(rows, "\n")
}
