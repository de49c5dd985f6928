package segment

import "github.com/rivo/uniseg"

// Segment splits text into an ordered list of symbols.
//
// When enumerate is false the whole text is a single symbol. When it is true
// every user-perceived character becomes its own symbol, so combining marks
// and emoji sequences stay together. Empty text yields no symbols.
func Segment(text string, enumerate bool) []string {
	if text == "" {
		return nil
	}
	if !enumerate {
		return []string{text}
	}

	symbols := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		symbols = append(symbols, g.Str())
	}
	return symbols
}
