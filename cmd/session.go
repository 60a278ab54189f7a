package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/player"
	"github.com/mlihgenel/audiotrim-cli/internal/preview"
	"github.com/mlihgenel/audiotrim-cli/internal/render"
	"github.com/mlihgenel/audiotrim-cli/internal/store"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

// Paylaşılan kırpma flag'leri
var (
	trimStartFlag string
	trimEndFlag   string
	trimBackend   string
)

// sourceKey yerel dosyaları mutlak yola çevirir; URL'ler olduğu gibi kalır.
func sourceKey(source string) string {
	source = strings.TrimSpace(source)
	if isRemoteSource(source) {
		return source
	}
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return source
}

func isRemoteSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func checkSource(source string) error {
	if isRemoteSource(source) {
		return nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("kaynak dosya bulunamadı: %s", source)
	}
	if info.IsDir() {
		return fmt.Errorf("kaynak bir dizin: %s", source)
	}
	return nil
}

func openWindowStore() (*store.Store, error) {
	return store.Open(activeProjectConfig.StorePath)
}

// resolveInitialWindow flag'leri, yoksa kayıtlı pencereyi kullanır.
func resolveInitialWindow(st *store.Store, key, startRaw, endRaw string) (float64, *float64, error) {
	var start float64
	var end *float64

	if st != nil {
		saved, err := st.Get(key)
		switch {
		case err == nil:
			start, end = saved.Start, saved.End
		case !errors.Is(err, store.ErrNotFound):
			return 0, nil, err
		}
	}

	if strings.TrimSpace(startRaw) != "" {
		v, err := parseTimeInput(startRaw)
		if err != nil {
			return 0, nil, fmt.Errorf("--start: %w", err)
		}
		start = v
	}
	if strings.TrimSpace(endRaw) != "" {
		v, err := parseOptionalTime(endRaw)
		if err != nil {
			return 0, nil, fmt.Errorf("--end: %w", err)
		}
		end = v
	}
	return start, end, nil
}

// newWindow kaydı ve bildirimi bağlanmış bir kırpma penceresi kurar.
func newWindow(st *store.Store, key string, start float64, end *float64) (*trim.Window, *store.Recorder) {
	var rec *store.Recorder
	opts := trim.Options{Start: start, End: end}
	if st != nil {
		rec = store.NewRecorder(st, key)
		opts.OnChange = func(s, e float64) {
			rec.Record(s, e)
			if err := rec.Err(); err != nil {
				appLog.Error("pencere kaydedilemedi", "source", key, "err", err)
				return
			}
			appLog.Debug("pencere kaydedildi", "source", key, "start", s, "end", e)
		}
	}
	return trim.New(opts), rec
}

func probeSource(ctx context.Context, source string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, activeProjectConfig.Timeout)
	defer cancel()
	return media.ProbeDuration(ctx, "", source)
}

// newRenderer backend adına göre önizleme üreticisini kurar.
func newRenderer(backend string) (preview.Renderer, error) {
	switch backend {
	case "", "http":
		if strings.TrimSpace(activeProjectConfig.RenderURL) == "" {
			return nil, fmt.Errorf("render_url ayarlanmadı (.audiotrim.toml veya %s)", envRenderURL)
		}
		return render.NewHTTPClient(render.HTTPOptions{
			BaseURL:   activeProjectConfig.RenderURL,
			Token:     activeProjectConfig.AuthToken,
			Timeout:   activeProjectConfig.Timeout,
			RateLimit: activeProjectConfig.RateLimit,
			Logger:    appLog,
		})
	case "ffmpeg":
		return render.NewFFmpegRenderer("")
	default:
		return nil, fmt.Errorf("bilinmeyen render backend: %s", backend)
	}
}

func newPlayer() *player.MpvPlayer {
	return player.New(player.Options{
		Path:   activeProjectConfig.MpvPath,
		Logger: appLog,
	})
}

func previewTempDir() string {
	return filepath.Join(os.TempDir(), "audiotrim")
}

func ensurePreviewTempDir() (string, error) {
	dir := previewTempDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
