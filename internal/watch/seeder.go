package watch

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mlihgenel/audiotrim-cli/internal/logger"
	"github.com/mlihgenel/audiotrim-cli/internal/store"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

// ProbeFunc bir dosyanın süresini döner.
type ProbeFunc func(ctx context.Context, path string) (float64, error)

// WindowStore seeder'ın kullandığı kayıt işlemleridir.
type WindowStore interface {
	Get(source string) (store.SavedWindow, error)
	Save(w store.SavedWindow) error
}

// SeedResult tek bir dosya için seed sonucudur.
type SeedResult struct {
	Path    string
	Window  trim.Snapshot
	Skipped bool
	Err     error
}

// Seeder yeni gelen ses dosyalarına varsayılan (0, süre) penceresi yazar.
type Seeder struct {
	Probe ProbeFunc
	Store WindowStore
	Log   *log.Logger
}

// Seed dosyayı işler. Kayıtlı pencere varsa dokunmaz.
func (s *Seeder) Seed(ctx context.Context, path string) SeedResult {
	l := s.Log
	if l == nil {
		l = logger.Discard()
	}

	if _, err := s.Store.Get(path); err == nil {
		return SeedResult{Path: path, Skipped: true}
	} else if !errors.Is(err, store.ErrNotFound) {
		return SeedResult{Path: path, Err: err}
	}

	d, err := s.Probe(ctx, path)
	if err != nil {
		return SeedResult{Path: path, Err: fmt.Errorf("süre okunamadı: %w", err)}
	}

	rec := store.NewRecorder(s.Store, path)
	w := trim.New(trim.Options{OnChange: rec.Record})
	if !w.DiscoverDuration(d) {
		return SeedResult{Path: path, Err: fmt.Errorf("geçersiz süre: %v", d)}
	}
	if err := rec.Err(); err != nil {
		return SeedResult{Path: path, Err: err}
	}

	snap := w.Snapshot()
	l.Info("pencere oluşturuldu", "path", path, "start", snap.Start, "end", snap.End)
	return SeedResult{Path: path, Window: snap}
}
