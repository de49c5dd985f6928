// Package ui provides the terminal UI that shows and speaks a host name.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speakhost/internal/cache"
	"github.com/dgnsrekt/speakhost/internal/sequencer"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
)

// Speaker is the speech capability the UI drives.
type Speaker interface {
	sequencer.Speaker
	Engine() speech.EngineInfo
	Stats() speech.SpeakerStats
}

// Deps are the collaborators the UI is built from.
type Deps struct {
	Speaker Speaker
	Voices  speech.VoiceLister
	// Builder is the base utterance configuration; the UI overrides
	// RandomVoices with its own toggle.
	Builder speech.BuilderConfig
	// CacheStats reports audio cache usage for the status bar. Optional.
	CacheStats func() cache.Stats
}

// SettingsMsg asks the UI to re-render with new settings, for example after
// the config file changed.
type SettingsMsg struct {
	Enumerate    bool
	RandomVoices bool
}

type (
	errMsg struct{ err error }

	symbolsMsg struct {
		id      int
		symbols []sequencer.Symbol
	}

	// bounceMsg flips the lit cell of lighting seq.
	bounceMsg struct {
		gen int64
		seq int
	}

	// loopDoneMsg reports that the loop of runner generation gen exited.
	loopDoneMsg struct{ gen int }

	statusMessageTimeoutMsg struct{ id int }
)

func (e errMsg) Error() string { return e.err.Error() }

// state is the playback state shown in the status bar.
type state int

const (
	stateComposing state = iota
	stateStopped
	statePlaying
)

func (s state) String() string {
	return map[state]string{
		stateComposing: "preparing",
		stateStopped:   "stopped",
		statePlaying:   "playing",
	}[s]
}

type model struct {
	cfg  Config
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	runner      *sequencer.Runner
	highlighter *channelHighlighter

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	symbols   []sequencer.Symbol
	composeID int
	composing bool
	playing   bool
	// loopGen is the runner generation the model waits on, 0 when none.
	loopGen int

	// lit is the highlighted cell or -1.
	lit    int
	raised bool
	// litSeq counts lightings so bounces of an earlier one are dropped,
	// even when the same cell is lit again.
	litSeq int

	statusMessage   string
	statusMessageID int

	width    int
	height   int
	fatalErr error
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug(
		"Starting speakhost",
		"host", cfg.Host,
		"enumerate", cfg.Enumerate,
		"random_voices", cfg.RandomVoices,
		"engine", deps.Speaker.Engine().Name,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(newModel(context.Background(), cfg, deps), opts...)
}

func newModel(ctx context.Context, cfg Config, deps Deps) model {
	if cfg.BounceInterval <= 0 {
		cfg.BounceInterval = 150 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(ctx)

	hl := newChannelHighlighter()
	seq := sequencer.New(deps.Speaker, hl, sequencer.Config{
		Placeholder: cfg.Placeholder,
		Rounds:      cfg.Rounds,
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(fuchsia)

	return model{
		cfg:         cfg,
		deps:        deps,
		ctx:         ctx,
		cancel:      cancel,
		runner:      sequencer.NewRunner(ctx, seq),
		highlighter: hl,
		keys:        newKeyMap(),
		help:        help.New(),
		spinner:     sp,
		playing:     cfg.Autoplay,
		composing:   true,
		composeID:   1,
		lit:         -1,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForHighlight(m.ctx, m.highlighter),
		m.composeCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.quit()
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()

		case key.Matches(msg, m.keys.Play):
			if m.playing {
				m.stop()
				return m, nil
			}
			m.playing = true
			if !m.composing {
				return m, m.start()
			}
			return m, nil

		case key.Matches(msg, m.keys.Enumerate):
			m.cfg.Enumerate = !m.cfg.Enumerate
			cmds = append(cmds, m.rerender(), m.showStatusMessage(onOff("spell out", m.cfg.Enumerate)))

		case key.Matches(msg, m.keys.RandomVoices):
			m.cfg.RandomVoices = !m.cfg.RandomVoices
			cmds = append(cmds, m.rerender(), m.showStatusMessage(onOff("random voices", m.cfg.RandomVoices)))

		case key.Matches(msg, m.keys.Copy):
			if err := clipboard.WriteAll(m.cfg.Host); err != nil {
				log.Error("unable to copy host", "error", err)
				cmds = append(cmds, m.showStatusMessage("Copy failed"))
			} else {
				cmds = append(cmds, m.showStatusMessage("Copied host"))
			}

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case SettingsMsg:
		if msg.Enumerate == m.cfg.Enumerate && msg.RandomVoices == m.cfg.RandomVoices {
			return m, nil
		}
		log.Info("settings changed", "enumerate", msg.Enumerate, "random_voices", msg.RandomVoices)
		m.cfg.Enumerate = msg.Enumerate
		m.cfg.RandomVoices = msg.RandomVoices
		cmds = append(cmds, m.rerender(), m.showStatusMessage("Settings reloaded"))

	case symbolsMsg:
		if msg.id != m.composeID {
			return m, nil
		}
		m.symbols = msg.symbols
		m.composing = false
		if m.playing {
			cmds = append(cmds, m.start())
		}

	case loopDoneMsg:
		if msg.gen != m.loopGen {
			return m, nil
		}
		log.Debug("playback finished", "generation", msg.gen)
		m.loopGen = 0
		m.playing = false
		m.clearHighlight()
		m.highlighter.next()

	case highlightMsg:
		cmds = append(cmds, waitForHighlight(m.ctx, m.highlighter))
		if msg.gen != m.highlighter.current() {
			break
		}
		if msg.on {
			m.lit = msg.index
			m.litSeq++
			m.raised = !m.cfg.NoBounce
			if !m.cfg.NoBounce {
				cmds = append(cmds, bounce(m.cfg.BounceInterval, msg.gen, m.litSeq))
			}
		} else if m.lit == msg.index {
			m.lit = -1
			m.raised = false
		}

	case bounceMsg:
		if msg.gen != m.highlighter.current() || msg.seq != m.litSeq || m.lit < 0 {
			return m, nil
		}
		m.raised = !m.raised
		cmds = append(cmds, bounce(m.cfg.BounceInterval, msg.gen, msg.seq))

	case statusMessageTimeoutMsg:
		if msg.id == m.statusMessageID {
			m.statusMessage = ""
		}

	case spinner.TickMsg:
		if m.composing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case errMsg:
		m.fatalErr = msg.err
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	var body string
	if m.composing && len(m.symbols) == 0 {
		body = m.spinner.View() + " preparing voices" + ellipsis
	} else {
		body = cellsView(m.symbols, m.lit, m.raised, m.width)
	}

	helpView := m.help.View(m.keys)
	status := m.statusBarView()

	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + status + "\n" + helpView
	}

	bodyHeight := max(0, m.height-lipgloss.Height(status)-lipgloss.Height(helpView))
	body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	return lipgloss.JoinVertical(lipgloss.Left, body, status, helpView)
}

// start replaces the running loop with one over the current symbols and
// returns a command that reports when the new loop exits.
func (m *model) start() tea.Cmd {
	m.runner.Stop()
	m.clearHighlight()
	m.highlighter.next()
	gen := m.runner.Start(m.symbols)
	m.loopGen = gen
	log.Debug("playback started", "generation", gen, "symbols", len(m.symbols))
	return waitForLoop(m.runner.Done(), gen)
}

func (m *model) stop() {
	m.runner.Stop()
	m.clearHighlight()
	m.highlighter.next()
	m.playing = false
	m.loopGen = 0
}

func (m *model) clearHighlight() {
	m.lit = -1
	m.raised = false
}

// rerender stops playback of the old symbols and composes new ones. The
// loop restarts once they arrive if playback was on.
func (m *model) rerender() tea.Cmd {
	m.runner.Stop()
	m.loopGen = 0
	m.clearHighlight()
	m.highlighter.next()
	return m.compose()
}

func (m *model) compose() tea.Cmd {
	m.composeID++
	m.composing = true
	return m.composeCmd()
}

// composeCmd builds symbols for the current settings, tagged with the
// current compose ID so results of superseded requests are dropped.
func (m model) composeCmd() tea.Cmd {
	var (
		ctx       = m.ctx
		id        = m.composeID
		host      = m.cfg.Host
		enumerate = m.cfg.Enumerate
		deps      = m.deps
		bcfg      = m.deps.Builder
	)
	bcfg.RandomVoices = m.cfg.RandomVoices

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		b, err := speech.NewBuilder(deps.Voices, bcfg)
		if err != nil {
			return errMsg{err}
		}
		symbols := sequencer.Compose(ctx, b, host, enumerate)
		if w, ok := deps.Speaker.(warmer); ok {
			w.Warm(ctx, utterances(symbols))
		}
		return symbolsMsg{id: id, symbols: symbols}
	})
}

func (m *model) quit() tea.Cmd {
	m.runner.Stop()
	m.cancel()
	return tea.Quit
}

func (m *model) showStatusMessage(s string) tea.Cmd {
	m.statusMessageID++
	m.statusMessage = s
	id := m.statusMessageID
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id: id}
	})
}

// warmer is implemented by speakers that can synthesize ahead of playback.
type warmer interface {
	Warm(ctx context.Context, utterances []*speech.Utterance)
}

func utterances(symbols []sequencer.Symbol) []*speech.Utterance {
	out := make([]*speech.Utterance, len(symbols))
	for i, s := range symbols {
		out[i] = s.Utterance
	}
	return out
}

func bounce(d time.Duration, gen int64, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return bounceMsg{gen: gen, seq: seq}
	})
}

func waitForLoop(done <-chan struct{}, gen int) tea.Cmd {
	return func() tea.Msg {
		<-done
		return loopDoneMsg{gen: gen}
	}
}

func onOff(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
