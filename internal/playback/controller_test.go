package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

type fakeMedia struct {
	playing  bool
	position float64
	ended    bool
	seeks    []float64
	plays    int
	pauses   int
	failPlay bool
}

func (f *fakeMedia) Play() error {
	if f.failPlay {
		return errors.New("device busy")
	}
	f.plays++
	f.playing = true
	return nil
}

func (f *fakeMedia) Pause() error {
	f.pauses++
	f.playing = false
	return nil
}

func (f *fakeMedia) Seek(seconds float64) error {
	f.seeks = append(f.seeks, seconds)
	f.position = seconds
	f.ended = false
	return nil
}

func (f *fakeMedia) Position() (float64, error) { return f.position, nil }
func (f *fakeMedia) Ended() (bool, error)       { return f.ended, nil }

func newWindow(t *testing.T, duration, start, end float64) *trim.Window {
	t.Helper()
	w := trim.New(trim.Options{Start: start, End: &end})
	w.DiscoverDuration(duration)
	return w
}

func TestPlaySeeksToStart(t *testing.T) {
	media := &fakeMedia{position: 42}
	c := NewController(media, newWindow(t, 120, 10, 20), nil)

	if err := c.Play(); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if len(media.seeks) != 1 || media.seeks[0] != 10 {
		t.Fatalf("expected seek to 10 before play, got %#v", media.seeks)
	}
	if st := c.Status(); st.State != Playing || st.CurrentTime != 10 {
		t.Fatalf("unexpected status: %#v", st)
	}
}

func TestTickStopsAtEnd(t *testing.T) {
	media := &fakeMedia{}
	c := NewController(media, newWindow(t, 120, 10, 20), nil)
	if err := c.Play(); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	for _, pos := range []float64{12, 15.5, 19.95, 20.03, 21} {
		media.position = pos
		st, err := c.Tick()
		if err != nil {
			t.Fatalf("tick failed: %v", err)
		}
		if st.CurrentTime > 20 {
			t.Fatalf("reported position %.2f beyond end", st.CurrentTime)
		}
		if pos >= 20 {
			if st.State != Stopped || st.CurrentTime != 10 {
				t.Fatalf("expected stop at start after crossing end, got %#v", st)
			}
		}
	}
	if media.playing {
		t.Fatalf("media must be paused after crossing end")
	}
	if last := media.seeks[len(media.seeks)-1]; last != 10 {
		t.Fatalf("expected final seek back to start, got %.2f", last)
	}
}

func TestTickHandlesNaturalEnd(t *testing.T) {
	media := &fakeMedia{}
	c := NewController(media, newWindow(t, 30, 5, 30), nil)
	if err := c.Play(); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	media.position = 29.8
	media.ended = true

	st, err := c.Tick()
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if st.State != Stopped || st.CurrentTime != 5 {
		t.Fatalf("unexpected status after natural end: %#v", st)
	}
	if media.pauses != 0 {
		t.Fatalf("ended media must not be paused again")
	}
}

func TestPauseKeepsPosition(t *testing.T) {
	media := &fakeMedia{}
	c := NewController(media, newWindow(t, 60, 0, 60), nil)
	_ = c.Play()
	media.position = 7.5
	_, _ = c.Tick()

	if err := c.Toggle(); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if st := c.Status(); st.State != Stopped || st.CurrentTime != 7.5 {
		t.Fatalf("unexpected status after pause: %#v", st)
	}
}

func TestResetReturnsToStart(t *testing.T) {
	media := &fakeMedia{}
	w := newWindow(t, 60, 3, 40)
	c := NewController(media, w, nil)
	_ = c.Play()
	media.position = 25
	_, _ = c.Tick()

	if err := c.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if st := c.Status(); st.State != Stopped || st.CurrentTime != 3 {
		t.Fatalf("unexpected status after reset: %#v", st)
	}
}

func TestPlayIsNoopForZeroDuration(t *testing.T) {
	media := &fakeMedia{}
	w := trim.New(trim.Options{})
	w.DiscoverDuration(0)
	c := NewController(media, w, nil)

	if err := c.Play(); err != nil {
		t.Fatalf("play on empty asset must not fail: %v", err)
	}
	if media.plays != 0 || c.Status().State != Stopped {
		t.Fatalf("play on empty asset must be a no-op")
	}
}

func TestPlayWaitsForMetadata(t *testing.T) {
	media := &fakeMedia{}
	c := NewController(media, trim.New(trim.Options{}), nil)
	if err := c.Play(); err != nil {
		t.Fatalf("play before metadata must not fail: %v", err)
	}
	if media.plays != 0 {
		t.Fatalf("playback must wait for duration")
	}
}

func TestPlayErrorKeepsStopped(t *testing.T) {
	media := &fakeMedia{failPlay: true}
	c := NewController(media, newWindow(t, 60, 0, 60), nil)
	if err := c.Play(); err == nil {
		t.Fatalf("expected play error")
	}
	if c.Status().State != Stopped {
		t.Fatalf("state must stay stopped after failed play")
	}
}

func TestRunPublishesStatus(t *testing.T) {
	media := &fakeMedia{}
	c := NewController(media, newWindow(t, 60, 0, 10), nil)
	_ = c.Play()
	media.position = 11

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	out := make(chan Status, 1)
	go func() { _ = c.Run(ctx, 10*time.Millisecond, out) }()

	select {
	case st := <-out:
		if st.State != Stopped || st.CurrentTime != 0 {
			t.Fatalf("expected stopped at start, got %#v", st)
		}
	case <-ctx.Done():
		t.Fatalf("no status published")
	}
}
