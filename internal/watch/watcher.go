package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AudioExtensions izlenen ses dosyası uzantılarıdır.
var AudioExtensions = []string{"mp3", "wav", "ogg", "flac", "aac", "m4a", "opus"}

// Engine polling ve event tabanlı izleyicilerin ortak arayüzüdür.
type Engine interface {
	Bootstrap() error
	Poll(now time.Time) ([]string, error)
	Mode() string
	Close() error
}

type fileState struct {
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Processed  bool
}

// Watcher polling tabanlı dosya izleyicisidir.
type Watcher struct {
	Root      string
	Recursive bool
	SettleFor time.Duration

	exts   map[string]bool
	states map[string]fileState
}

// NewWatcher yeni bir watcher oluşturur. from virgülle ayrılmış uzantılardır;
// boşsa tüm ses uzantıları izlenir.
func NewWatcher(root, from string, recursive bool, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = 1500 * time.Millisecond
	}
	return &Watcher{
		Root:      root,
		Recursive: recursive,
		SettleFor: settleFor,
		exts:      extensionSet(from),
		states:    make(map[string]fileState),
	}
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

func extensionSet(from string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(from, ",") {
		if f := normalizeExt(part); f != "" {
			set[f] = true
		}
	}
	if len(set) > 0 {
		return set
	}
	for _, ext := range AudioExtensions {
		set[ext] = true
	}
	return set
}

// IsAudioFile uzantının izlenen ses formatlarından biri olup olmadığını söyler.
func IsAudioFile(path string) bool {
	ext := normalizeExt(filepath.Ext(path))
	for _, e := range AudioExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) matches(path string) bool {
	return w.exts[normalizeExt(filepath.Ext(path))]
}

// Bootstrap mevcut dosyaları "zaten işlenmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	now := time.Now()
	return w.scan(func(path string, info os.FileInfo) error {
		w.states[path] = fileState{
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			LastChange: now,
			Processed:  true,
		}
		return nil
	})
}

// Poll yeni/degisen ve stabilize olmuş dosyaları döner.
func (w *Watcher) Poll(now time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var ready []string

	err := w.scan(func(path string, info os.FileInfo) error {
		seen[path] = struct{}{}
		state, ok := w.states[path]

		if !ok {
			w.states[path] = fileState{
				Size:       info.Size(),
				ModTime:    info.ModTime(),
				LastChange: now,
			}
			return nil
		}

		if state.Size != info.Size() || !state.ModTime.Equal(info.ModTime()) {
			state.Size = info.Size()
			state.ModTime = info.ModTime()
			state.LastChange = now
			state.Processed = false
			w.states[path] = state
			return nil
		}

		if !state.Processed && now.Sub(state.LastChange) >= w.SettleFor {
			state.Processed = true
			w.states[path] = state
			ready = append(ready, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for path := range w.states {
		if _, ok := seen[path]; !ok {
			delete(w.states, path)
		}
	}
	return ready, nil
}

// Mode izleme yöntemini döner.
func (w *Watcher) Mode() string { return "polling" }

// Close polling izleyicide bir şey yapmaz.
func (w *Watcher) Close() error { return nil }

func (w *Watcher) scan(onFile func(path string, info os.FileInfo) error) error {
	info, err := os.Stat(w.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch yolu dizin olmalidir: %s", w.Root)
	}

	return filepath.WalkDir(w.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !w.Recursive && path != w.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.matches(path) {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		return onFile(path, info)
	})
}
