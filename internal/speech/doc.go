// Package speech turns symbols into utterance requests and speaks them
// through a pluggable synthesizer, a cache and an audio player.
package speech
