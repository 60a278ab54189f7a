package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mlihgenel/audiotrim-cli/internal/logger"
	"github.com/mlihgenel/audiotrim-cli/internal/media"
)

const (
	socketCheckRetries  = 30
	socketCheckInterval = 100 * time.Millisecond
	socketReadDeadline  = 500 * time.Millisecond
)

// ErrNotLoaded bir kaynak yüklenmeden çalma komutu verildiğinde döner.
var ErrNotLoaded = errors.New("oynatıcıya kaynak yüklenmedi")

type command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type response struct {
	Error     string `json:"error"`
	Data      any    `json:"data"`
	RequestID int    `json:"request_id"`
	Event     string `json:"event"`
}

// Options mpv sürecinin ayarlarıdır.
type Options struct {
	// Path boşsa mpv sistemde aranır.
	Path      string
	SocketDir string
	Logger    *log.Logger
}

// MpvPlayer mpv'yi JSON IPC üzerinden süren medya elemanıdır. Ana kanal ve
// önizleme kanalı için ayrı örnekler kullanılır.
type MpvPlayer struct {
	mu         sync.Mutex
	path       string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	attached   bool
	loaded     bool
	dial       func() (net.Conn, error)
	log        *log.Logger
}

// New süreci başlatmadan bir oynatıcı hazırlar; süreç ilk Load'da açılır.
func New(opts Options) *MpvPlayer {
	dir := opts.SocketDir
	if dir == "" {
		dir = os.TempDir()
	}
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	p := &MpvPlayer{
		path:       opts.Path,
		socketPath: filepath.Join(dir, "audiotrim-mpv-"+uuid.NewString()[:8]+".sock"),
		log:        l,
	}
	p.dial = func() (net.Conn, error) { return net.Dial("unix", p.socketPath) }
	return p
}

// newAttached hazır bir IPC bağlantısı kullanan oynatıcı döner; süreç yönetilmez.
func newAttached(dial func() (net.Conn, error)) *MpvPlayer {
	return &MpvPlayer{attached: true, dial: dial, log: logger.Discard()}
}

func (p *MpvPlayer) runningLocked() bool {
	if p.attached {
		return true
	}
	if p.cmd == nil {
		return false
	}
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *MpvPlayer) startLocked() error {
	if p.runningLocked() {
		return nil
	}
	path := p.path
	if path == "" {
		found, err := media.FindMpv()
		if err != nil {
			return err
		}
		path = found
	}

	_ = os.Remove(p.socketPath)
	args := []string{
		"--idle",
		"--no-video",
		"--no-config",
		"--no-terminal",
		"--keep-open=yes",
		"--input-ipc-server=" + p.socketPath,
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("mpv başlatılamadı: %w", err)
	}
	exited := make(chan struct{})
	p.cmd = cmd
	p.exited = exited
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	p.log.Debug("mpv started", "pid", cmd.Process.Pid, "socket", p.socketPath)
	for i := 0; i < socketCheckRetries; i++ {
		if _, err := os.Stat(p.socketPath); err == nil {
			return nil
		}
		time.Sleep(socketCheckInterval)
	}
	_ = cmd.Process.Kill()
	p.cmd = nil
	return fmt.Errorf("mpv soketi oluşmadı: %s", p.socketPath)
}

// call komutları sırayla gönderir ve request_id'ye göre yanıtları eşler.
func (p *MpvPlayer) call(cmds ...command) ([]response, error) {
	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("mpv soketine bağlanılamadı: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(socketReadDeadline))

	enc := json.NewEncoder(conn)
	for i := range cmds {
		cmds[i].RequestID = i + 1
		if err := enc.Encode(cmds[i]); err != nil {
			return nil, fmt.Errorf("mpv komutu gönderilemedi: %w", err)
		}
	}

	out := make([]response, len(cmds))
	got := 0
	scanner := bufio.NewScanner(conn)
	for got < len(cmds) && scanner.Scan() {
		var resp response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			p.log.Warn("mpv satırı çözülemedi", "line", scanner.Text(), "err", err)
			continue
		}
		if resp.Event != "" || resp.RequestID < 1 || resp.RequestID > len(cmds) {
			continue
		}
		out[resp.RequestID-1] = resp
		got++
	}
	if got < len(cmds) {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("mpv yanıtı okunamadı: %w", err)
		}
		return nil, errors.New("mpv yanıtı eksik")
	}
	return out, nil
}

func (p *MpvPlayer) do(args ...any) error {
	resp, err := p.call(command{Command: args})
	if err != nil {
		return err
	}
	if resp[0].Error != "success" {
		return fmt.Errorf("mpv %v: %s", args[0], resp[0].Error)
	}
	return nil
}

func (p *MpvPlayer) property(name string) (any, bool, error) {
	resp, err := p.call(command{Command: []any{"get_property", name}})
	if err != nil {
		return nil, false, err
	}
	if resp[0].Error != "success" {
		// "property unavailable": henüz yüklenmemiş ya da bitmiş kaynak
		return nil, false, nil
	}
	return resp[0].Data, true, nil
}

// Load kaynağı yükler; paused false ise baştan çalmaya başlar.
func (p *MpvPlayer) Load(source string, paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.startLocked(); err != nil {
		return err
	}
	if err := p.do("set_property", "pause", paused); err != nil {
		return err
	}
	if err := p.do("loadfile", source, "replace"); err != nil {
		return err
	}
	p.loaded = true
	return nil
}

func (p *MpvPlayer) ready() error {
	if !p.runningLocked() || !p.loaded {
		return ErrNotLoaded
	}
	return nil
}

// Play duraklatmayı kaldırır.
func (p *MpvPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return err
	}
	return p.do("set_property", "pause", false)
}

// Pause çalmayı duraklatır.
func (p *MpvPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return err
	}
	return p.do("set_property", "pause", true)
}

// Seek mutlak konuma atlar.
func (p *MpvPlayer) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return err
	}
	return p.do("seek", seconds, "absolute", "exact")
}

// Position çalma konumunu saniye olarak döner; konum yoksa 0.
func (p *MpvPlayer) Position() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return 0, err
	}
	data, ok, err := p.property("time-pos")
	if err != nil || !ok {
		return 0, err
	}
	pos, _ := data.(float64)
	return pos, nil
}

// Ended kaynağın sonuna gelinip gelinmediğini döner.
func (p *MpvPlayer) Ended() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return false, err
	}
	data, ok, err := p.property("eof-reached")
	if err != nil || !ok {
		return false, err
	}
	ended, _ := data.(bool)
	return ended, nil
}

// Duration yüklenen kaynağın süresini döner. mpv süreyi henüz bilmiyorsa
// media.ErrMetadataUnavailable döner.
func (p *MpvPlayer) Duration() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ready(); err != nil {
		return 0, err
	}
	data, ok, err := p.property("duration")
	if err != nil {
		return 0, err
	}
	d, isNum := data.(float64)
	if !ok || !isNum {
		return 0, media.ErrMetadataUnavailable
	}
	return d, nil
}

// WaitDuration mpv süreyi bildirene kadar yoklar.
func (p *MpvPlayer) WaitDuration(timeout time.Duration) (float64, error) {
	deadline := time.Now().Add(timeout)
	for {
		d, err := p.Duration()
		if err == nil || !errors.Is(err, media.ErrMetadataUnavailable) || time.Now().After(deadline) {
			return d, err
		}
		time.Sleep(socketCheckInterval)
	}
}

// Close mpv sürecini sonlandırır ve soketi siler.
func (p *MpvPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	if p.attached {
		return nil
	}
	if p.runningLocked() {
		_ = p.do("quit")
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			p.log.Warn("mpv sonlandırılamadı", "err", err)
		}
		p.cmd = nil
	}
	_ = os.Remove(p.socketPath)
	return nil
}
