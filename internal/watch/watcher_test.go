package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/store"
)

func TestWatcherBootstrapAndPoll(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.mp3")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(dir, "", false, time.Second)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	now := time.Now()
	ready, err := w.Poll(now)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected no ready files after bootstrap")
	}

	newFile := filepath.Join(dir, "new.ogg")
	if err := os.WriteFile(newFile, []byte("new"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ready, err = w.Poll(now.Add(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected no ready files before settle")
	}

	ready, err = w.Poll(now.Add(2 * time.Second))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 1 || ready[0] != newFile {
		t.Fatalf("expected new audio file ready, got: %#v", ready)
	}

	ready, err = w.Poll(now.Add(3 * time.Second))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected file to be emitted once")
	}
}

func TestWatcherFromFilter(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, ".WAV", false, 500*time.Millisecond)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	for _, name := range []string{"a.wav", "b.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	base := time.Now()
	_, _ = w.Poll(base)
	ready, err := w.Poll(base.Add(time.Second))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 1 || filepath.Base(ready[0]) != "a.wav" {
		t.Fatalf("only wav files should match, got: %#v", ready)
	}
}

func TestExtensionSetAcceptsList(t *testing.T) {
	set := extensionSet(" mp3, .OGG ,")
	if len(set) != 2 || !set["mp3"] || !set["ogg"] {
		t.Fatalf("unexpected extension set: %#v", set)
	}
	if all := extensionSet(""); len(all) != len(AudioExtensions) {
		t.Fatalf("empty filter should match all audio extensions, got %d", len(all))
	}
}

func TestWatcherDetectsModifiedFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "mod.flac")
	if err := os.WriteFile(f, []byte("a"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewWatcher(dir, "", false, 500*time.Millisecond)
	if err := w.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	base := time.Now()
	if err := os.WriteFile(f, []byte("changed-content"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	ready, err := w.Poll(base.Add(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 0 {
		t.Fatalf("expected no ready file before settle")
	}

	ready, err = w.Poll(base.Add(2 * time.Second))
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(ready) != 1 || ready[0] != f {
		t.Fatalf("expected modified file ready once, got: %#v", ready)
	}
}

func TestIsAudioFile(t *testing.T) {
	if !IsAudioFile("/x/Alert.M4A") || IsAudioFile("/x/cover.png") {
		t.Fatalf("unexpected audio extension detection")
	}
}

type memStore struct {
	saved map[string]store.SavedWindow
}

func (m *memStore) Get(source string) (store.SavedWindow, error) {
	w, ok := m.saved[source]
	if !ok {
		return w, store.ErrNotFound
	}
	return w, nil
}

func (m *memStore) Save(w store.SavedWindow) error {
	m.saved[w.Source] = w
	return nil
}

func TestSeederWritesDefaultWindow(t *testing.T) {
	st := &memStore{saved: map[string]store.SavedWindow{}}
	s := &Seeder{
		Probe: func(ctx context.Context, path string) (float64, error) { return 12.5, nil },
		Store: st,
	}

	res := s.Seed(context.Background(), "/alerts/coin.mp3")
	if res.Err != nil || res.Skipped {
		t.Fatalf("unexpected result: %+v", res)
	}
	saved := st.saved["/alerts/coin.mp3"]
	if saved.Start != 0 || saved.End == nil || *saved.End != 12.5 {
		t.Fatalf("expected (0, 12.5) window, got %+v", saved)
	}
}

func TestSeederSkipsExistingWindow(t *testing.T) {
	end := 3.0
	st := &memStore{saved: map[string]store.SavedWindow{"a.mp3": {Source: "a.mp3", Start: 1, End: &end}}}
	probed := false
	s := &Seeder{
		Probe: func(ctx context.Context, path string) (float64, error) { probed = true; return 10, nil },
		Store: st,
	}

	res := s.Seed(context.Background(), "a.mp3")
	if !res.Skipped || probed {
		t.Fatalf("existing window should be kept without probing: %+v", res)
	}
	if *st.saved["a.mp3"].End != 3 {
		t.Fatalf("existing window was modified")
	}
}

func TestSeederProbeFailure(t *testing.T) {
	st := &memStore{saved: map[string]store.SavedWindow{}}
	s := &Seeder{
		Probe: func(ctx context.Context, path string) (float64, error) { return 0, media.ErrMetadataUnavailable },
		Store: st,
	}

	res := s.Seed(context.Background(), "broken.mp3")
	if !errors.Is(res.Err, media.ErrMetadataUnavailable) {
		t.Fatalf("expected metadata error, got %v", res.Err)
	}
	if len(st.saved) != 0 {
		t.Fatalf("nothing should be saved on probe failure")
	}
}
