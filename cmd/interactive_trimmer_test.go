package cmd

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/playback"
	"github.com/mlihgenel/audiotrim-cli/internal/preview"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

type fakeMedia struct {
	playing bool
	pos     float64
	plays   int
	seeks   []float64
}

func (f *fakeMedia) Play() error  { f.playing = true; f.plays++; return nil }
func (f *fakeMedia) Pause() error { f.playing = false; return nil }
func (f *fakeMedia) Seek(s float64) error {
	f.pos = s
	f.seeks = append(f.seeks, s)
	return nil
}
func (f *fakeMedia) Position() (float64, error) { return f.pos, nil }
func (f *fakeMedia) Ended() (bool, error)       { return false, nil }

func newTestTrimmer(t *testing.T) (trimmerModel, *fakeMedia) {
	t.Helper()
	w := trim.New(trim.Options{})
	fm := &fakeMedia{}
	m := newTrimmerModel(trimmerConfig{
		source:   "alert.mp3",
		label:    "alert.mp3",
		window:   w,
		playback: playback.NewController(fm, w, nil),
		step:     0.5,
	})
	return m, fm
}

func sendKey(t *testing.T, m trimmerModel, k tea.KeyMsg) trimmerModel {
	t.Helper()
	next, _ := m.Update(k)
	return next.(trimmerModel)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrimmerDurationMessageDiscoversWindow(t *testing.T) {
	m, _ := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: 10})
	m = next.(trimmerModel)

	snap := m.cfg.window.Snapshot()
	if !snap.Known || snap.Duration != 10 || !snap.HasEnd || snap.End != 10 {
		t.Fatalf("unexpected snapshot after discovery: %+v", snap)
	}
	if m.durationErr != nil {
		t.Fatalf("unexpected duration error: %v", m.durationErr)
	}
}

func TestTrimmerDurationMessageRejectsInvalid(t *testing.T) {
	m, _ := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: math.NaN()})
	m = next.(trimmerModel)
	if !errors.Is(m.durationErr, media.ErrMetadataUnavailable) {
		t.Fatalf("expected metadata unavailable, got %v", m.durationErr)
	}
	if m.cfg.window.Snapshot().Known {
		t.Fatalf("duration should stay unknown")
	}
}

func TestTrimmerArrowKeysMoveFocusedMarker(t *testing.T) {
	m, _ := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: 10})
	m = next.(trimmerModel)

	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.cfg.window.Snapshot().Start; !near(got, 0.5) {
		t.Fatalf("expected start 0.5, got %.3f", got)
	}

	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != markerEnd {
		t.Fatalf("expected focus to move to end marker")
	}
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.cfg.window.Snapshot().End; !near(got, 9.5) {
		t.Fatalf("expected end 9.5, got %.3f", got)
	}

	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.cfg.window.Snapshot().End; !near(got, 10) {
		t.Fatalf("end should clamp to duration, got %.3f", got)
	}
}

func TestTrimmerStartCannotPassEnd(t *testing.T) {
	m, _ := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: 10})
	m = next.(trimmerModel)

	m = sendKey(t, m, runeKey(']'))
	m = sendKey(t, m, runeKey(']'))
	m = sendKey(t, m, runeKey(']'))
	if m.step != 10 {
		t.Fatalf("expected step 10, got %g", m.step)
	}
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})

	snap := m.cfg.window.Snapshot()
	if !near(snap.Start, 10-trim.Epsilon) || snap.End != 10 {
		t.Fatalf("unexpected window after overshoot: %+v", snap)
	}
}

func TestTrimmerEndMarkerIgnoredBeforeDuration(t *testing.T) {
	m, _ := newTestTrimmer(t)
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cfg.window.Snapshot().HasEnd {
		t.Fatalf("end marker should not move before duration is known")
	}
}

func TestTrimmerResetRestoresFullWindow(t *testing.T) {
	m, fm := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: 8})
	m = next.(trimmerModel)

	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = sendKey(t, m, runeKey('r'))

	snap := m.cfg.window.Snapshot()
	if snap.Start != 0 || snap.End != 8 {
		t.Fatalf("expected (0, 8) after reset, got (%.2f, %.2f)", snap.Start, snap.End)
	}
	if len(fm.seeks) == 0 || fm.seeks[len(fm.seeks)-1] != 0 {
		t.Fatalf("expected playback to seek to start on reset, got %v", fm.seeks)
	}
}

func TestTrimmerPlayRequiresDuration(t *testing.T) {
	m, fm := newTestTrimmer(t)
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if fm.plays != 0 {
		t.Fatalf("playback should not start before duration is known")
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}

	next, _ := m.Update(durationMsg{duration: 5})
	m = next.(trimmerModel)
	m = sendKey(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if fm.plays != 1 || m.status.State != playback.Playing {
		t.Fatalf("expected playback to start, plays=%d state=%v", fm.plays, m.status.State)
	}
}

func TestTrimmerPreviewWithoutRenderer(t *testing.T) {
	m, _ := newTestTrimmer(t)
	m = sendKey(t, m, runeKey('p'))
	if m.errMsg == "" || m.previewBusy {
		t.Fatalf("expected configuration error, got busy=%v msg=%q", m.previewBusy, m.errMsg)
	}
}

func TestTrimmerIgnoresSupersededPreview(t *testing.T) {
	m, _ := newTestTrimmer(t)
	m.previewBusy = true
	next, _ := m.Update(previewDoneMsg{err: preview.ErrSuperseded})
	m = next.(trimmerModel)
	if m.errMsg != "" {
		t.Fatalf("superseded preview should not surface an error: %q", m.errMsg)
	}
	if m.previewBusy {
		t.Fatalf("busy flag should clear without a requester")
	}

	next, _ = m.Update(previewDoneMsg{err: errors.New("boom")})
	m = next.(trimmerModel)
	if !strings.Contains(m.errMsg, "boom") {
		t.Fatalf("expected failure message, got %q", m.errMsg)
	}
}

func TestTrimmerViewShowsMarkers(t *testing.T) {
	m, _ := newTestTrimmer(t)
	next, _ := m.Update(durationMsg{duration: 10})
	m = next.(trimmerModel)

	out := m.View()
	for _, want := range []string{"alert.mp3", "Başlangıç", "Bitiş", "◆"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestNextStep(t *testing.T) {
	if got := nextStep(0.5, 1); got != 1 {
		t.Fatalf("expected 1, got %g", got)
	}
	if got := nextStep(0.5, -1); got != 0.1 {
		t.Fatalf("expected 0.1, got %g", got)
	}
	if got := nextStep(10, 1); got != 10 {
		t.Fatalf("expected upper bound 10, got %g", got)
	}
	if got := nextStep(0.01, -1); got != 0.01 {
		t.Fatalf("expected lower bound 0.01, got %g", got)
	}
	if got := nextStep(0.3, 1); got != 0.5 {
		t.Fatalf("expected 0.5 for off-grid step, got %g", got)
	}
}
