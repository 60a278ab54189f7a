package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

var windowsBucket = []byte("trim_windows")

// ErrNotFound kaynak için kayıtlı pencere yoksa döner.
var ErrNotFound = errors.New("kayıtlı kırpma penceresi yok")

// SavedWindow bir ses kaynağı için onaylanmış kırpma aralığıdır.
// End nil ise dosyanın sonu anlamına gelir.
type SavedWindow struct {
	Source    string    `json:"source"`
	Start     float64   `json:"start"`
	End       *float64  `json:"end,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store kırpma pencerelerini bbolt veritabanında tutar.
type Store struct {
	db *bbolt.DB
}

// Open veritabanını açar, gerekirse dizinini ve bucket'ı oluşturur.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("veritabanı dizini oluşturulamadı: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("veritabanı açılamadı: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(windowsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("trim_windows bucket oluşturulamadı: %w", err)
	}
	return &Store{db: db}, nil
}

func key(source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("kaynak boş olamaz")
	}
	return []byte(source), nil
}

// Save pencereyi kaydeder; UpdatedAt boşsa şimdiki zaman yazılır.
func (s *Store) Save(w SavedWindow) error {
	k, err := key(w.Source)
	if err != nil {
		return err
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = time.Now()
	}
	value, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("pencere serileştirilemedi: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(windowsBucket).Put(k, value)
	})
}

// Get kaynağın kayıtlı penceresini döner.
func (s *Store) Get(source string) (SavedWindow, error) {
	var w SavedWindow
	k, err := key(source)
	if err != nil {
		return w, err
	}
	err = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(windowsBucket).Get(k)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &w)
	})
	return w, err
}

// List tüm kayıtları kaynak adına göre sıralı döner.
func (s *Store) List() ([]SavedWindow, error) {
	var out []SavedWindow
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(windowsBucket).ForEach(func(k, v []byte) error {
			var w SavedWindow
			if err := json.Unmarshal(v, &w); err != nil {
				return fmt.Errorf("%s kaydı okunamadı: %w", k, err)
			}
			out = append(out, w)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete kaydı siler; kayıt yoksa ErrNotFound döner.
func (s *Store) Delete(source string) error {
	k, err := key(source)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(windowsBucket)
		if b.Get(k) == nil {
			return ErrNotFound
		}
		return b.Delete(k)
	})
}

// Close veritabanını kapatır.
func (s *Store) Close() error {
	return s.db.Close()
}

// Saver pencere kaydedebilen bir hedeftir.
type Saver interface {
	Save(w SavedWindow) error
}

// Recorder trim.Window bildirimlerini bir kaynak adına kaydeden yardımcıdır.
// Son kayıt hatası Err ile okunur.
type Recorder struct {
	store  Saver
	source string
	err    error
}

// NewRecorder source için bir Recorder oluşturur.
func NewRecorder(s Saver, source string) *Recorder {
	return &Recorder{store: s, source: source}
}

// Record onaylanmış (start, end) çiftini yazar.
func (r *Recorder) Record(start, end float64) {
	e := end
	r.err = r.store.Save(SavedWindow{Source: r.source, Start: start, End: &e})
}

// Err son Record çağrısının hatasını döner.
func (r *Recorder) Err() error { return r.err }
