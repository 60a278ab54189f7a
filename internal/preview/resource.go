package preview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrEmptyResource render çıktısı hiç bayt içermediğinde döner.
var ErrEmptyResource = errors.New("önizleme verisi boş")

// Resource diske yazılmış oynatılabilir önizleme dosyasıdır. Release edilene
// kadar dosya yerinde kalır.
type Resource struct {
	id   string
	path string
	size int64

	once       sync.Once
	releaseErr error
}

// Materialize r'deki baytları dir altında geçici bir mp3 dosyasına yazar.
func Materialize(dir, id string, r io.Reader) (*Resource, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, "preview-"+id+"-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("önizleme dosyası oluşturulamadı: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil && n == 0 {
		copyErr = ErrEmptyResource
	}
	if copyErr != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("önizleme yazılamadı: %w", copyErr)
	}

	return &Resource{id: id, path: f.Name(), size: n}, nil
}

// ID kaynağı üreten isteğin kimliğidir.
func (r *Resource) ID() string { return r.id }

// Path medya oynatıcıya verilecek dosya yoludur.
func (r *Resource) Path() string { return r.path }

// Size dosyanın bayt cinsinden boyutudur.
func (r *Resource) Size() int64 { return r.size }

// Release dosyayı siler. Birden çok çağrı güvenlidir.
func (r *Resource) Release() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.releaseErr = err
		}
	})
	return r.releaseErr
}
