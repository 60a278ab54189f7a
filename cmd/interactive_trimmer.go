package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/playback"
	"github.com/mlihgenel/audiotrim-cli/internal/preview"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

// stepSizes [ ve ] tuşlarıyla gezilen işaretçi adımlarıdır (saniye).
var stepSizes = []float64{0.01, 0.1, 0.5, 1, 5, 10}

type previewer interface {
	Request(ctx context.Context, source string, start float64, end *float64) (*preview.Resource, error)
	Busy() bool
}

type trimmerConfig struct {
	source   string
	label    string
	window   *trim.Window
	playback *playback.Controller
	// previews nil ise önizleme tuşu hata mesajı gösterir.
	previews       previewer
	discover       func(ctx context.Context) (float64, error)
	step           float64
	interval       time.Duration
	previewTimeout time.Duration
}

type marker int

const (
	markerStart marker = iota
	markerEnd
)

type trimTickMsg time.Time

type durationMsg struct {
	duration float64
	err      error
}

type previewDoneMsg struct {
	res  *preview.Resource
	err  error
	took time.Duration
}

type trimmerKeyMap struct {
	toggle   key.Binding
	left     key.Binding
	right    key.Binding
	focus    key.Binding
	stepDown key.Binding
	stepUp   key.Binding
	reset    key.Binding
	preview  key.Binding
	dismiss  key.Binding
	help     key.Binding
	quit     key.Binding
}

func newTrimmerKeyMap() trimmerKeyMap {
	return trimmerKeyMap{
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "çal/duraklat"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "geri"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "ileri"),
		),
		focus: key.NewBinding(
			key.WithKeys("tab", "up", "down", "k", "j"),
			key.WithHelp("tab/↑↓", "işaretçi"),
		),
		stepDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "adım -"),
		),
		stepUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "adım +"),
		),
		reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "sıfırla"),
		),
		preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "önizleme"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "mesajı kapat"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "yardım"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "çıkış"),
		),
	}
}

func (k trimmerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.left, k.right, k.focus, k.preview, k.help, k.quit}
}

func (k trimmerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.left, k.right, k.focus},
		{k.stepDown, k.stepUp, k.reset, k.preview},
		{k.dismiss, k.help, k.quit},
	}
}

type trimmerModel struct {
	cfg  trimmerConfig
	keys trimmerKeyMap
	help help.Model

	focus  marker
	step   float64
	status playback.Status

	loadingDuration bool
	durationErr     error

	previewBusy bool
	previewInfo string
	errMsg      string

	spinnerTick int
	width       int
}

func newTrimmerModel(cfg trimmerConfig) trimmerModel {
	if cfg.interval <= 0 || cfg.interval >= 100*time.Millisecond {
		cfg.interval = playback.DefaultInterval
	}
	step := cfg.step
	if step <= 0 {
		step = 0.5
	}
	m := trimmerModel{
		cfg:             cfg,
		keys:            newTrimmerKeyMap(),
		help:            help.New(),
		step:            step,
		loadingDuration: cfg.discover != nil,
	}
	if cfg.playback != nil {
		m.status = cfg.playback.Status()
	}
	return m
}

func (m trimmerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.cfg.discover != nil {
		cmds = append(cmds, m.discoverCmd())
	}
	return tea.Batch(cmds...)
}

func (m trimmerModel) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.interval, func(t time.Time) tea.Msg {
		return trimTickMsg(t)
	})
}

func (m trimmerModel) discoverCmd() tea.Cmd {
	discover := m.cfg.discover
	return func() tea.Msg {
		d, err := discover(context.Background())
		return durationMsg{duration: d, err: err}
	}
}

func (m trimmerModel) previewCmd() tea.Cmd {
	snap := m.cfg.window.Snapshot()
	start := snap.Start
	var end *float64
	if snap.HasEnd {
		e := snap.End
		end = &e
	}
	previews := m.cfg.previews
	source := m.cfg.source
	timeout := m.cfg.previewTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		started := time.Now()
		res, err := previews.Request(ctx, source, start, end)
		return previewDoneMsg{res: res, err: err, took: time.Since(started)}
	}
}

func (m trimmerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case trimTickMsg:
		m.spinnerTick++
		if m.cfg.playback != nil {
			status, err := m.cfg.playback.Tick()
			m.status = status
			if err != nil {
				m.errMsg = err.Error()
			}
		}
		return m, m.tickCmd()

	case durationMsg:
		m.loadingDuration = false
		if msg.err != nil {
			m.durationErr = msg.err
			return m, nil
		}
		if !m.cfg.window.DiscoverDuration(msg.duration) {
			m.durationErr = media.ErrMetadataUnavailable
			return m, nil
		}
		if m.cfg.playback != nil {
			m.status = m.cfg.playback.Status()
		}
		return m, nil

	case previewDoneMsg:
		m.previewBusy = m.cfg.previews != nil && m.cfg.previews.Busy()
		switch {
		case errors.Is(msg.err, preview.ErrSuperseded):
		case msg.err != nil:
			m.errMsg = "Önizleme başarısız: " + msg.err.Error()
		default:
			if m.cfg.playback != nil {
				_ = m.cfg.playback.Pause()
			}
			m.previewInfo = fmt.Sprintf("Önizleme çalıyor (%s, %s)", ui.FormatBytes(msg.res.Size()), msg.took.Round(time.Millisecond))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m trimmerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.dismiss):
		m.errMsg = ""

	case key.Matches(msg, m.keys.toggle):
		if m.cfg.playback == nil {
			return m, nil
		}
		if !m.cfg.window.Snapshot().Playable() {
			m.errMsg = "Süre bilinmeden veya boş aralıkta çalma başlatılamaz"
			return m, nil
		}
		if err := m.cfg.playback.Toggle(); err != nil {
			m.errMsg = err.Error()
		}
		m.status = m.cfg.playback.Status()

	case key.Matches(msg, m.keys.left):
		m.moveFocused(-m.step)

	case key.Matches(msg, m.keys.right):
		m.moveFocused(m.step)

	case key.Matches(msg, m.keys.focus):
		if m.focus == markerStart {
			m.focus = markerEnd
		} else {
			m.focus = markerStart
		}

	case key.Matches(msg, m.keys.stepDown):
		m.step = nextStep(m.step, -1)

	case key.Matches(msg, m.keys.stepUp):
		m.step = nextStep(m.step, 1)

	case key.Matches(msg, m.keys.reset):
		m.cfg.window.Reset()
		if m.cfg.playback != nil {
			if err := m.cfg.playback.Reset(); err != nil {
				m.errMsg = err.Error()
			}
			m.status = m.cfg.playback.Status()
		}

	case key.Matches(msg, m.keys.preview):
		if m.cfg.previews == nil {
			m.errMsg = "Önizleme için render servisi yapılandırılmadı"
			return m, nil
		}
		m.previewBusy = true
		m.previewInfo = ""
		m.errMsg = ""
		return m, m.previewCmd()
	}
	return m, nil
}

// moveFocused odaktaki işaretçiyi delta kadar kaydırır; kısıtları pencere uygular.
func (m *trimmerModel) moveFocused(delta float64) {
	snap := m.cfg.window.Snapshot()
	if m.focus == markerStart {
		m.cfg.window.SetStart(snap.Start + delta)
		return
	}
	if !snap.HasEnd {
		// süre bilinmeden bitiş taşınamaz
		return
	}
	m.cfg.window.SetEnd(snap.End + delta)
}

func nextStep(current float64, dir int) float64 {
	if dir > 0 {
		for _, s := range stepSizes {
			if s > current+1e-9 {
				return s
			}
		}
		return stepSizes[len(stepSizes)-1]
	}
	for i := len(stepSizes) - 1; i >= 0; i-- {
		if stepSizes[i] < current-1e-9 {
			return stepSizes[i]
		}
	}
	return stepSizes[0]
}

// runTrimmerProgram kırpıcıyı alternatif ekranda çalıştırır.
func runTrimmerProgram(cfg trimmerConfig) error {
	p := tea.NewProgram(newTrimmerModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
