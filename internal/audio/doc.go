// Package audio provides PCM buffers, format conversion and cross-platform
// playback using the oto/v3 library.
package audio
