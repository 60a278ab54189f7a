package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mlihgenel/audiotrim-cli/internal/logger"
	"github.com/mlihgenel/audiotrim-cli/internal/render"
)

var (
	// ErrSuperseded istek sonuçlanmadan daha yeni bir istek başlatıldığında döner.
	ErrSuperseded = errors.New("önizleme daha yeni bir istekle geçersiz kılındı")
	// ErrClosed Requester kapatıldıktan sonra yapılan isteklerde döner.
	ErrClosed = errors.New("önizleme kapatıldı")
)

// Renderer kırpılmış önizlemeyi üreten servistir.
type Renderer interface {
	RenderPreview(ctx context.Context, req render.Request) (io.ReadCloser, error)
}

// Player önizleme kanalındaki medya elemanıdır.
type Player interface {
	Load(path string, paused bool) error
}

// Options Requester ayarlarıdır. Player nil ise önizleme sadece diske yazılır.
type Options struct {
	Renderer  Renderer
	Player    Player
	TempDir   string
	OnPreview func(start float64, end *float64)
	OnError   func(err error)
	Logger    *log.Logger
}

// Requester açık kullanıcı isteğiyle önizleme alır ve tek bir canlı
// önizleme dosyası tutar.
type Requester struct {
	opts Options
	log  *log.Logger

	mu       sync.Mutex
	issued   uint64
	inFlight int
	current  *Resource
	closed   bool
}

// New bir Requester oluşturur.
func New(opts Options) (*Requester, error) {
	if opts.Renderer == nil {
		return nil, errors.New("önizleme için renderer gerekli")
	}
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	return &Requester{opts: opts, log: l}, nil
}

// Busy sonuçlanmamış istek varsa true döner.
func (r *Requester) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight > 0
}

// Current canlı önizleme kaynağını döner; yoksa nil.
func (r *Requester) Current() *Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Request pencereyi render ettirir, sonucu kurup baştan çaldırır. Bu sırada
// daha yeni bir istek başlatılmışsa sonuç atılır ve ErrSuperseded döner.
// Hata durumunda önceki önizleme yerinde kalır.
func (r *Requester) Request(ctx context.Context, source string, start float64, end *float64) (*Resource, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.issued++
	seq := r.issued
	r.inFlight++
	r.mu.Unlock()

	req := render.NewRequest(source, start, end)
	r.log.Debug("preview requested", "id", req.ID, "seq", seq, "start", start, "end", end)

	res, err := r.fetch(ctx, req)

	r.mu.Lock()
	r.inFlight--
	stale := seq != r.issued || r.closed
	if stale {
		r.mu.Unlock()
		if res != nil {
			_ = res.Release()
		}
		r.log.Debug("preview discarded", "id", req.ID, "seq", seq)
		return nil, ErrSuperseded
	}
	if err != nil {
		r.mu.Unlock()
		r.fail(err)
		return nil, err
	}

	previous := r.current
	r.current = res
	var loadErr error
	if r.opts.Player != nil {
		loadErr = r.opts.Player.Load(res.Path(), false)
	}
	r.mu.Unlock()

	if previous != nil {
		if err := previous.Release(); err != nil {
			r.log.Warn("eski önizleme silinemedi", "path", previous.Path(), "err", err)
		}
	}
	if loadErr != nil {
		err := fmt.Errorf("önizleme çalınamadı: %w", loadErr)
		r.fail(err)
		return res, err
	}

	r.log.Info("preview ready", "id", req.ID, "bytes", res.Size())
	if r.opts.OnPreview != nil {
		r.opts.OnPreview(start, end)
	}
	return res, nil
}

func (r *Requester) fetch(ctx context.Context, req render.Request) (*Resource, error) {
	body, err := r.opts.Renderer.RenderPreview(ctx, req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	res, err := Materialize(r.opts.TempDir, req.ID, body)
	if errors.Is(err, ErrEmptyResource) {
		return nil, render.ErrEmptyPreview
	}
	return res, err
}

func (r *Requester) fail(err error) {
	r.log.Error("önizleme başarısız", "err", err)
	if r.opts.OnError != nil {
		r.opts.OnError(err)
	}
}

// Close canlı önizlemeyi serbest bırakır; sonuçlanmamış istekler atılır.
func (r *Requester) Close() error {
	r.mu.Lock()
	r.closed = true
	current := r.current
	r.current = nil
	r.mu.Unlock()
	return current.Release()
}
