package audio

import (
	"context"
	"sync"
	"time"
)

// MockPlayer is a Player stand-in for tests. It waits for the PCM duration
// multiplied by Speed instead of touching an audio device.
type MockPlayer struct {
	format Format

	// Speed scales the simulated playback time. Zero returns immediately.
	Speed float64
	// Err, when set, is returned from every Play call.
	Err error

	mu     sync.Mutex
	played []*PCM
	active int
	peak   int
}

// NewMockPlayer returns a mock player that expects format f.
func NewMockPlayer(f Format) *MockPlayer {
	return &MockPlayer{format: f}
}

// Format returns the format the mock expects.
func (m *MockPlayer) Format() Format {
	return m.format
}

// Play records pcm and simulates playback.
func (m *MockPlayer) Play(ctx context.Context, pcm *PCM) error {
	if pcm == nil || len(pcm.Data) == 0 {
		return ErrEmptyAudio
	}

	m.mu.Lock()
	m.played = append(m.played, pcm)
	m.active++
	if m.active > m.peak {
		m.peak = m.active
	}
	err := m.Err
	wait := time.Duration(float64(pcm.Duration()) * m.Speed)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if err != nil {
		return err
	}
	if wait <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Played returns every PCM passed to Play, in order.
func (m *MockPlayer) Played() []*PCM {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*PCM, len(m.played))
	copy(out, m.played)
	return out
}

// PeakConcurrency reports the most simultaneous Play calls seen.
func (m *MockPlayer) PeakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Close is a no-op.
func (m *MockPlayer) Close() error { return nil }
