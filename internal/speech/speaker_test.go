package speech_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/cache"
	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/dgnsrekt/speakhost/internal/speech/engines/mock"
)

func newTestSpeaker(t *testing.T) (*speech.Speaker, *mock.Engine, *audio.MockPlayer) {
	t.Helper()
	engine := mock.New()
	engine.PerCharacter = 20 * time.Millisecond
	player := audio.NewMockPlayer(audio.DefaultFormat)
	c, err := cache.NewManager(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	cfg := speech.DefaultSpeakerConfig()
	cfg.SynthesisPerSecond = 0
	return speech.NewSpeaker(engine, player, c, cfg), engine, player
}

func TestSpeakConvertsToPlayerFormat(t *testing.T) {
	s, _, player := newTestSpeaker(t)

	if err := s.Speak(context.Background(), speech.Utterance{Text: "a", Rate: 1, Pitch: 1}); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	played := player.Played()
	if len(played) != 1 {
		t.Fatalf("played %d clips, want 1", len(played))
	}
	if played[0].Format != audio.DefaultFormat {
		t.Errorf("played format %v, want %v", played[0].Format, audio.DefaultFormat)
	}
	if played[0].Duration() != 20*time.Millisecond {
		t.Errorf("played duration %v, want 20ms", played[0].Duration())
	}
}

func TestSpeakUsesCache(t *testing.T) {
	s, engine, player := newTestSpeaker(t)
	u := speech.Utterance{Text: "dot", Rate: 0.8, Pitch: 0.65}

	for i := 0; i < 3; i++ {
		if err := s.Speak(context.Background(), u); err != nil {
			t.Fatalf("Speak failed: %v", err)
		}
	}
	if n := len(engine.Calls()); n != 1 {
		t.Errorf("synthesized %d times, want 1", n)
	}
	if n := len(player.Played()); n != 3 {
		t.Errorf("played %d times, want 3", n)
	}

	stats := s.Stats()
	if stats.Spoken != 3 || stats.Synthesized != 1 || stats.CacheHits != 2 {
		t.Errorf("stats = %+v", stats)
	}

	// a different voice is a different recording
	u.Voice = &speech.Voice{ID: "mock-gb"}
	_ = s.Speak(context.Background(), u)
	if n := len(engine.Calls()); n != 2 {
		t.Errorf("synthesized %d times, want 2", n)
	}
}

func TestSpeakErrors(t *testing.T) {
	s, engine, player := newTestSpeaker(t)
	engine.FailOn("boom", errors.New("engine crashed"))

	err := s.Speak(context.Background(), speech.Utterance{Text: "boom", Rate: 1})
	if speech.CodeOf(err) != speech.ErrorCodeEngineFailure {
		t.Errorf("synthesis failure error = %v", err)
	}

	player.Err = errors.New("device unplugged")
	err = s.Speak(context.Background(), speech.Utterance{Text: "ok", Rate: 1})
	if speech.CodeOf(err) != speech.ErrorCodeAudioFailure {
		t.Errorf("playback failure error = %v", err)
	}

	if err := s.Speak(context.Background(), speech.Utterance{}); !errors.Is(err, speech.ErrEmptyText) {
		t.Errorf("empty utterance error = %v", err)
	}
	if s.Stats().Failures != 2 {
		t.Errorf("Failures = %d, want 2", s.Stats().Failures)
	}
}

func TestSpeakTimeout(t *testing.T) {
	engine := mock.New()
	engine.Delay = time.Second
	player := audio.NewMockPlayer(audio.DefaultFormat)
	s := speech.NewSpeaker(engine, player, nil, speech.SpeakerConfig{Timeout: 20 * time.Millisecond})

	err := s.Speak(context.Background(), speech.Utterance{Text: "slow", Rate: 1})
	if speech.CodeOf(err) != speech.ErrorCodeEngineTimeout {
		t.Errorf("error = %v, want ENGINE_TIMEOUT", err)
	}
}

func TestSpeakCanceled(t *testing.T) {
	s, _, player := newTestSpeaker(t)
	player.Speed = 1

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := s.Speak(ctx, speech.Utterance{Text: "a long utterance that plays for a while", Rate: 0.25})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWarm(t *testing.T) {
	s, engine, player := newTestSpeaker(t)
	us := []*speech.Utterance{
		{Text: "a", Rate: 0.8, Pitch: 0.65},
		nil,
		{Text: "b", Rate: 0.8, Pitch: 0.65},
	}
	s.Warm(context.Background(), us)

	if n := len(engine.Calls()); n != 2 {
		t.Errorf("synthesized %d, want 2", n)
	}
	if n := len(player.Played()); n != 0 {
		t.Errorf("warming should not play audio, played %d", n)
	}

	_ = s.Speak(context.Background(), *us[0])
	if n := len(engine.Calls()); n != 2 {
		t.Errorf("speaking a warmed utterance synthesized again")
	}
}
