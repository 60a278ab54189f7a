package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/preview"
	"github.com/mlihgenel/audiotrim-cli/internal/render"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var (
	previewStart   string
	previewEnd     string
	previewOut     string
	previewNoPlay  bool
	previewBackend string
)

var previewCmd = &cobra.Command{
	Use:   "preview <kaynak>",
	Short: "Seçilen aralığın kırpılmış önizlemesini üret",
	Long: `Render servisinden (veya yerel ffmpeg'den) kırpılmış önizleme ister.
--start/--end verilmezse depodaki kayıtlı pencere kullanılır.

Örnekler:
  audiotrim preview alert.mp3
  audiotrim preview alert.mp3 --start 2 --end 6 --out kisa.mp3
  audiotrim preview https://cdn.example.com/alert.mp3 --backend ffmpeg --no-play`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		if err := checkSource(source); err != nil {
			return err
		}
		key := sourceKey(source)

		snap, err := resolveWindowSnapshot(cmd.Context(), key, previewStart, previewEnd)
		if err != nil {
			return err
		}
		start, end := windowBounds(snap)

		applyBackendDefault(cmd, "backend", &previewBackend)
		renderer, err := newRenderer(previewBackend)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		ui.PrintWindow(key, snap)
		started := time.Now()

		if previewOut != "" {
			n, err := renderToFile(ctx, renderer, render.NewRequest(key, start, end), previewOut)
			if err != nil {
				return err
			}
			ui.PrintSuccess(fmt.Sprintf("Önizleme kaydedildi: %s (%s)", previewOut, ui.FormatBytes(n)))
			ui.PrintDuration(time.Since(started))
			if previewNoPlay {
				return nil
			}
			p := newPlayer()
			defer p.Close()
			if err := p.Load(previewOut, false); err != nil {
				return fmt.Errorf("önizleme çalınamadı: %w", err)
			}
			ui.PrintInfo("Önizleme çalıyor. Durdurmak için Ctrl+C kullanın.")
			return waitForEnd(ctx, p)
		}

		dir, err := ensurePreviewTempDir()
		if err != nil {
			return err
		}
		opts := preview.Options{Renderer: renderer, TempDir: dir, Logger: appLog}
		var waitPlayer interface{ Ended() (bool, error) }
		if !previewNoPlay {
			p := newPlayer()
			defer p.Close()
			opts.Player = p
			waitPlayer = p
		}
		req, err := preview.New(opts)
		if err != nil {
			return err
		}
		defer req.Close()

		res, err := req.Request(ctx, key, start, end)
		if err != nil {
			return fmt.Errorf("önizleme başarısız: %w", err)
		}
		ui.PrintSuccess(fmt.Sprintf("Önizleme hazır (%s)", ui.FormatBytes(res.Size())))
		ui.PrintDuration(time.Since(started))
		if waitPlayer == nil {
			return nil
		}

		ui.PrintInfo("Önizleme çalıyor. Durdurmak için Ctrl+C kullanın.")
		return waitForEnd(ctx, waitPlayer)
	},
}

// resolveWindowSnapshot flag'leri ve kayıtlı pencereyi süreyle kısıtlanmış
// bir anlık görüntüye çevirir. Süre okunamazsa değerler olduğu gibi kalır.
func resolveWindowSnapshot(ctx context.Context, key, startRaw, endRaw string) (trim.Snapshot, error) {
	st, err := openWindowStore()
	if err != nil {
		appLog.Warn("pencere deposu açılamadı", "err", err)
		st = nil
	} else {
		defer st.Close()
	}

	start, end, err := resolveInitialWindow(st, key, startRaw, endRaw)
	if err != nil {
		return trim.Snapshot{}, err
	}
	w := trim.New(trim.Options{Start: start, End: end})
	if ctx == nil {
		ctx = context.Background()
	}
	if d, err := probeSource(ctx, key); err == nil {
		w.DiscoverDuration(d)
	} else {
		appLog.Debug("süre okunamadı", "source", key, "err", err)
	}
	return w.Snapshot(), nil
}

// windowBounds render isteği için başlangıç ve opsiyonel bitişi döner.
func windowBounds(s trim.Snapshot) (float64, *float64) {
	if !s.HasEnd {
		return s.Start, nil
	}
	e := s.End
	return s.Start, &e
}

func renderToFile(ctx context.Context, r preview.Renderer, req render.Request, out string) (int64, error) {
	body, err := r.RenderPreview(ctx, req)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, err
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr == nil && n == 0 {
		copyErr = render.ErrEmptyPreview
	}
	if copyErr != nil {
		_ = os.Remove(out)
		return 0, copyErr
	}
	return n, closeErr
}

func waitForEnd(ctx context.Context, p interface{ Ended() (bool, error) }) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			ended, err := p.Ended()
			if err != nil {
				return err
			}
			if ended {
				return nil
			}
		}
	}
}

func init() {
	previewCmd.Flags().StringVar(&previewStart, "start", "", "Başlangıç zamanı (sn veya mm:ss)")
	previewCmd.Flags().StringVar(&previewEnd, "end", "", "Bitiş zamanı (boş: dosya sonu)")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Önizlemeyi bu dosyaya kaydet")
	previewCmd.Flags().BoolVar(&previewNoPlay, "no-play", false, "Önizlemeyi çalma")
	previewCmd.Flags().StringVar(&previewBackend, "backend", "", "Önizleme backend'i: http veya ffmpeg")

	rootCmd.AddCommand(previewCmd)
}
