package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const logFileName = "audiotrim.log"

// New zaman damgalı bir [log.Logger] oluşturur. w nil ise os.Stderr kullanılır.
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "audiotrim",
	})
}

// Discard hiçbir yere yazmayan logger döner (testler ve sessiz mod için).
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OpenFile dir altındaki log dosyasına yazan logger açar.
// TUI terminali kullanırken loglar buraya yönlendirilir.
func OpenFile(dir string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		Prefix:          "audiotrim",
	})
	return l, f, nil
}

// ParseLevel config'deki seviye adını çözer; verbose her zaman debug'a çeker.
func ParseLevel(raw string, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
