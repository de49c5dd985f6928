package sequencer

import (
	"context"

	"github.com/dgnsrekt/speakhost/internal/segment"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// Compose segments host and builds an utterance for every symbol. Symbols
// whose utterance cannot be built stay silent.
func Compose(ctx context.Context, b *speech.Builder, host string, enumerate bool) []Symbol {
	texts := segment.Segment(host, enumerate)
	utterances := b.BuildAll(ctx, texts)

	symbols := make([]Symbol, len(texts))
	for i, t := range texts {
		symbols[i] = Symbol{Index: i, Text: t, Utterance: utterances[i]}
	}
	return symbols
}
