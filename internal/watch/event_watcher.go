package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher fsnotify olaylarıyla uyanan, kararı yine polling durumuna
// bırakan izleyicidir.
type EventWatcher struct {
	poller *Watcher
	fs     *fsnotify.Watcher

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventWatcher fsnotify backend'i oluşturur.
func NewEventWatcher(root, from string, recursive bool, settleFor time.Duration) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &EventWatcher{
		poller: NewWatcher(root, from, recursive, settleFor),
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}, nil
}

// NewAdaptiveWatcher event backend'i dener; olmazsa polling fallback döner.
func NewAdaptiveWatcher(root, from string, recursive bool, settleFor time.Duration) (Engine, error) {
	eventWatcher, err := NewEventWatcher(root, from, recursive, settleFor)
	if err != nil {
		return NewWatcher(root, from, recursive, settleFor), err
	}
	return eventWatcher, nil
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.poller.Bootstrap(); err != nil {
		return err
	}
	if err := w.watchDirectories(); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *EventWatcher) Poll(now time.Time) ([]string, error) {
	return w.poller.Poll(now)
}

// Events dosya sistemi değiştiğinde sinyal verir; sinyaller birleştirilir.
func (w *EventWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *EventWatcher) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if evt.Has(fsnotify.Create) && w.poller.Recursive {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					_ = w.fs.Add(evt.Name)
				}
			}
			if evt.Has(fsnotify.Create) || evt.Has(fsnotify.Write) || evt.Has(fsnotify.Rename) || evt.Has(fsnotify.Remove) {
				w.signal()
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// polling yine çalıştığı için hatada sadece uyandır
			w.signal()
		}
	}
}

func (w *EventWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *EventWatcher) watchDirectories() error {
	root := w.poller.Root
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch yolu dizin olmalidir: %s", root)
	}
	if !w.poller.Recursive {
		return w.fs.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.fs.Add(path)
	})
}
