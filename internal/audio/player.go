package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// pollInterval is how often Play checks whether oto drained the stream.
const pollInterval = 10 * time.Millisecond

// oto allows exactly one context per process.
var (
	otoOnce    sync.Once
	otoCtx     *oto.Context
	otoFormat  Format
	otoInitErr error
)

// ErrPlayerClosed is returned by Play after Close.
var ErrPlayerClosed = errors.New("player is closed")

// Player plays PCM through the system audio device.
type Player struct {
	ctx    *oto.Context
	format Format

	mu      sync.Mutex
	current *oto.Player
	volume  float64
	closed  bool
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	Format     Format
	BufferSize time.Duration
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Format:     DefaultFormat,
		BufferSize: 100 * time.Millisecond,
	}
}

// NewPlayer opens the audio device. The first call fixes the device format
// for the lifetime of the process; later calls must ask for the same one.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := config.Format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   config.Format.SampleRate,
			ChannelCount: config.Format.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   config.BufferSize,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoInitErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
		otoFormat = config.Format
		log.Debug("audio device ready", "format", config.Format)
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoFormat != config.Format {
		return nil, fmt.Errorf("audio device already opened as %s, cannot reopen as %s", otoFormat, config.Format)
	}

	return &Player{ctx: otoCtx, format: otoFormat, volume: 1.0}, nil
}

// Format returns the format the device expects.
func (p *Player) Format() Format {
	return p.format
}

// Play plays pcm and blocks until it has been fully played or ctx is done.
// The PCM must already be in the player's format.
func (p *Player) Play(ctx context.Context, pcm *PCM) error {
	if pcm == nil || len(pcm.Data) == 0 {
		return ErrEmptyAudio
	}
	if pcm.Format != p.format {
		return fmt.Errorf("pcm format %s does not match device format %s", pcm.Format, p.format)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	if p.current != nil {
		p.mu.Unlock()
		return errors.New("player is busy")
	}
	// The reader keeps the data alive for the duration of playback.
	player := p.ctx.NewPlayer(bytes.NewReader(pcm.Data))
	player.SetVolume(p.volume)
	p.current = player
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.current = nil
		p.mu.Unlock()
		_ = player.Close()
	}()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				if err := player.Err(); err != nil {
					return fmt.Errorf("playback failed: %w", err)
				}
				return nil
			}
		}
	}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.current != nil {
		p.current.SetVolume(volume)
	}
	return nil
}

// Close stops any playback. The oto context itself lives until exit.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.current != nil {
		p.current.Pause()
	}
	return nil
}
