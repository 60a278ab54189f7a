package trim

import (
	"math"
	"sync"
)

// Epsilon başlangıç ve bitiş arasında korunan en küçük boşluktur (saniye).
const Epsilon = 0.1

// ChangeFunc her onaylanmış sınır değişikliğinde son (düzeltilmiş) değerlerle çağrılır.
type ChangeFunc func(start, end float64)

// Options bir Window oluştururken kullanılacak başlangıç değerleridir.
type Options struct {
	Start float64
	// End nil ise "dosyanın sonu" anlamına gelir; süre öğrenilince ona eşitlenir.
	End      *float64
	OnChange ChangeFunc
}

// Snapshot pencerenin bir andaki değer kopyasıdır.
type Snapshot struct {
	Start    float64
	End      float64
	HasEnd   bool
	Duration float64
	Known    bool
}

// EffectiveEnd bitiş yoksa süreyi, süre de bilinmiyorsa +Inf döner.
func (s Snapshot) EffectiveEnd() float64 {
	if s.HasEnd {
		return s.End
	}
	if s.Known {
		return s.Duration
	}
	return math.Inf(1)
}

// Playable süre bilindiğinde ve pencere boş olmadığında true döner.
func (s Snapshot) Playable() bool {
	return s.Known && s.Duration > 0 && s.EffectiveEnd() > s.Start
}

// Window bir ses dosyası üzerindeki kırpma penceresini ve aralarındaki
// kısıtları yönetir. Sıfır değeri kullanılamaz; New ile oluşturun.
type Window struct {
	// emitMu bildirimlerin düzenleme sırasıyla çıkmasını sağlar.
	emitMu sync.Mutex
	mu     sync.Mutex

	start    float64
	end      float64
	hasEnd   bool
	duration float64
	known    bool

	onChange ChangeFunc

	emitted   bool
	lastStart float64
	lastEnd   float64
}

// New verilen başlangıç değerleriyle bir pencere oluşturur. Süre bilinmediği
// için bu aşamada bildirim yapılmaz.
func New(opts Options) *Window {
	w := &Window{onChange: opts.OnChange}
	w.start = sanitize(opts.Start, math.Inf(1))
	if opts.End != nil {
		w.end = sanitize(*opts.End, math.Inf(1))
		w.hasEnd = true
		if w.end <= w.start {
			w.end = w.start + Epsilon
		}
	}
	return w
}

// Snapshot mevcut değerlerin kopyasını döner.
func (w *Window) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Window) snapshotLocked() Snapshot {
	return Snapshot{
		Start:    w.start,
		End:      w.end,
		HasEnd:   w.hasEnd,
		Duration: w.duration,
		Known:    w.known,
	}
}

// SetStart başlangıcı [0, süre] aralığına sıkıştırır. Başlangıç bitişe
// ulaşırsa bitiş − Epsilon değerine çekilir (0'ın altına inmez).
func (w *Window) SetStart(value float64) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	w.mu.Lock()
	v := sanitize(value, w.upperLocked())
	if w.hasEnd && v >= w.end {
		v = math.Max(0, w.end-Epsilon)
	}
	w.start = v
	start, end, ok := w.pendingLocked()
	w.mu.Unlock()

	w.emit(start, end, ok)
}

// SetEnd bitişi [0, süre] aralığına sıkıştırır. Bitiş başlangıca ulaşırsa
// başlangıç + Epsilon yapılır; süre sınırı buna izin vermezse başlangıç geri çekilir.
func (w *Window) SetEnd(value float64) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	w.mu.Lock()
	upper := w.upperLocked()
	v := sanitize(value, upper)
	if w.degenerateLocked() {
		v = 0
	} else if v <= w.start {
		v = w.start + Epsilon
		if v > upper {
			v = upper
			w.start = math.Max(0, v-Epsilon)
		}
	}
	w.end = v
	w.hasEnd = true
	start, end, ok := w.pendingLocked()
	w.mu.Unlock()

	w.emit(start, end, ok)
}

// Reset pencereyi (0, süre) yapar. Süre bilinmiyorsa bitiş "dosya sonu"na döner.
func (w *Window) Reset() {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	w.mu.Lock()
	w.start = 0
	if w.known {
		w.end = w.duration
		w.hasEnd = true
	} else {
		w.end = 0
		w.hasEnd = false
	}
	start, end, ok := w.pendingLocked()
	w.mu.Unlock()

	w.emit(start, end, ok)
}

// DiscoverDuration süreyi bir kez ayarlar. Geçersiz değerler (NaN, negatif,
// sonsuz) metadata alınamadı sayılır ve false döner; süre bilinmez kalır.
func (w *Window) DiscoverDuration(d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return false
	}

	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	w.mu.Lock()
	if w.known {
		w.mu.Unlock()
		return false
	}
	w.known = true
	w.duration = d
	if !w.hasEnd {
		w.end = d
		w.hasEnd = true
	}
	w.start = sanitize(w.start, d)
	w.end = sanitize(w.end, d)
	switch {
	case d == 0:
		w.start, w.end = 0, 0
	case w.end <= w.start:
		w.end = w.start + Epsilon
		if w.end > d {
			w.end = d
			w.start = math.Max(0, d-Epsilon)
		}
	}
	start, end, ok := w.pendingLocked()
	w.mu.Unlock()

	w.emit(start, end, ok)
	return true
}

func (w *Window) upperLocked() float64 {
	if w.known {
		return w.duration
	}
	return math.Inf(1)
}

func (w *Window) degenerateLocked() bool {
	return w.known && w.duration == 0
}

// pendingLocked süre bilindiğinde ve değerler son bildirimden farklıysa
// gönderilecek çifti döner.
func (w *Window) pendingLocked() (float64, float64, bool) {
	if !w.known {
		return 0, 0, false
	}
	if w.emitted && w.lastStart == w.start && w.lastEnd == w.end {
		return 0, 0, false
	}
	w.emitted = true
	w.lastStart = w.start
	w.lastEnd = w.end
	return w.start, w.end, true
}

func (w *Window) emit(start, end float64, ok bool) {
	if !ok || w.onChange == nil {
		return
	}
	w.onChange(start, end)
}

// sanitize değeri [0, hi] aralığına çeker. NaN ve negatifler 0 olur;
// üst sınır sonsuzken gelen +Inf de 0 sayılır.
func sanitize(v, hi float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		if math.IsInf(hi, 1) {
			return 0
		}
		return hi
	}
	if v > hi {
		return hi
	}
	return v
}
