// Package sequencer plays symbols one after another in an endless loop,
// lighting each symbol's highlight for as long as it is being spoken.
package sequencer
