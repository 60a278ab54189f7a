package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mlihgenel/audiotrim-cli/internal/logger"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

// DefaultInterval konum yoklama aralığıdır; sınırda durma toleransı bunun altında kalır.
const DefaultInterval = 50 * time.Millisecond

// Media alt seviye çalma ilkelleridir (play/pause/seek). Aralık döngüsü
// kavramı yoktur; Controller bunu konum yoklayarak ekler.
type Media interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	Position() (float64, error)
	Ended() (bool, error)
}

// Bounds Controller'ın her tick'te sınırları okuduğu kaynaktır (ör. *trim.Window).
type Bounds interface {
	Snapshot() trim.Snapshot
}

// State çalma durumudur.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Status gözlemcilere verilen durum kopyasıdır.
type Status struct {
	State       State
	CurrentTime float64
}

// Controller medya elemanının üzerine [start, end] içinde çalma davranışı ekler.
type Controller struct {
	mu      sync.Mutex
	media   Media
	bounds  Bounds
	state   State
	current float64
	log     *log.Logger
}

// NewController yeni bir controller oluşturur; l nil ise loglar atılır.
func NewController(media Media, bounds Bounds, l *log.Logger) *Controller {
	if l == nil {
		l = logger.Discard()
	}
	return &Controller{
		media:   media,
		bounds:  bounds,
		current: bounds.Snapshot().Start,
		log:     l,
	}
}

// Status mevcut durumu döner.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, CurrentTime: c.current}
}

// Play pencerenin başına atlayıp çalmaya başlar. Süre bilinmiyorsa veya
// pencere boşsa hiçbir şey yapmaz.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Playing {
		return nil
	}
	snap := c.bounds.Snapshot()
	if !snap.Playable() {
		c.log.Debug("play ignored, window not playable", "known", snap.Known, "duration", snap.Duration)
		return nil
	}
	if err := c.media.Seek(snap.Start); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}
	if err := c.media.Play(); err != nil {
		return fmt.Errorf("play failed: %w", err)
	}
	c.state = Playing
	c.current = snap.Start
	return nil
}

// Pause çalmayı bulunduğu konumda durdurur.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing {
		return nil
	}
	if err := c.media.Pause(); err != nil {
		return fmt.Errorf("pause failed: %w", err)
	}
	c.state = Stopped
	return nil
}

// Toggle çalıyorsa durdurur, duruyorsa başlatır.
func (c *Controller) Toggle() error {
	if c.Status().State == Playing {
		return c.Pause()
	}
	return c.Play()
}

// Reset çalmayı durdurup konumu pencere başlangıcına alır.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopAtStartLocked(c.state == Playing)
}

// Tick medya konumunu okur. Konum bitişe ulaştıysa veya medya kendiliğinden
// bittiyse çalmayı durdurur ve başlangıca döner; dönen durum hiçbir zaman
// bitişten ileri bir konum göstermez.
func (c *Controller) Tick() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing {
		return Status{State: c.state, CurrentTime: c.current}, nil
	}

	pos, err := c.media.Position()
	if err != nil {
		return Status{State: c.state, CurrentTime: c.current}, fmt.Errorf("position read failed: %w", err)
	}
	ended, err := c.media.Ended()
	if err != nil {
		c.log.Debug("eof state unavailable", "err", err)
		ended = false
	}

	end := c.bounds.Snapshot().EffectiveEnd()
	if ended || pos >= end {
		// Medya kendisi bittiyse pause gereksiz.
		if stopErr := c.stopAtStartLocked(!ended); stopErr != nil {
			return Status{State: c.state, CurrentTime: c.current}, stopErr
		}
		return Status{State: c.state, CurrentTime: c.current}, nil
	}

	c.current = pos
	return Status{State: c.state, CurrentTime: c.current}, nil
}

func (c *Controller) stopAtStartLocked(pause bool) error {
	start := c.bounds.Snapshot().Start
	if pause {
		if err := c.media.Pause(); err != nil {
			return fmt.Errorf("pause failed: %w", err)
		}
	}
	c.state = Stopped
	c.current = start
	if err := c.media.Seek(start); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}
	return nil
}

// Run ctx bitene kadar her interval'de Tick çağırır ve durumu out kanalına
// yollar. Yavaş okuyucu tick'leri bloklamaz; eski durum atlanır.
func (c *Controller) Run(ctx context.Context, interval time.Duration, out chan<- Status) error {
	if interval <= 0 || interval >= 100*time.Millisecond {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := c.Tick()
			if err != nil {
				c.log.Warn("playback tick failed", "err", err)
			}
			if out == nil {
				continue
			}
			select {
			case out <- status:
			default:
			}
		}
	}
}
