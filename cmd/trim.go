package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/playback"
	"github.com/mlihgenel/audiotrim-cli/internal/preview"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var trimStepFlag float64

var trimCmd = &cobra.Command{
	Use:   "trim <kaynak>",
	Short: "Ses dosyasını interaktif olarak kırp",
	Long: `Bir ses dosyası veya URL üzerinde başlangıç/bitiş işaretçilerini ayarlar.

Kısayollar:
  space     seçili aralığı çal / duraklat
  ← →       odaktaki işaretçiyi adım kadar kaydır
  tab       başlangıç/bitiş arasında geç
  [ ]       adım boyunu değiştir
  r         aralığı sıfırla (0, süre)
  p         render servisinden önizleme iste

Onaylanan her değişiklik yerel depoya kaydedilir; aynı dosya tekrar
açıldığında son aralık geri yüklenir.

Örnekler:
  audiotrim trim alert.mp3
  audiotrim trim alert.mp3 --start 1.5 --end 0:07 --step 0.1
  audiotrim trim alert.mp3 --backend ffmpeg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrimmer(cmd, args[0])
	},
}

func addTrimFlags(c *cobra.Command) {
	c.Flags().StringVar(&trimStartFlag, "start", "", "Başlangıç zamanı (sn veya mm:ss)")
	c.Flags().StringVar(&trimEndFlag, "end", "", "Bitiş zamanı (boş: dosya sonu)")
	c.Flags().Float64Var(&trimStepFlag, "step", 0, "İşaretçi adımı (sn, varsayılan: ayar dosyası)")
	c.Flags().StringVar(&trimBackend, "backend", "", "Önizleme backend'i: http veya ffmpeg")
}

func runTrimmer(cmd *cobra.Command, source string) error {
	if err := checkSource(source); err != nil {
		return err
	}
	key := sourceKey(source)

	restoreLog, err := useFileLogger()
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("Log dosyası açılamadı: %s", err.Error()))
	}
	defer restoreLog()

	st, err := openWindowStore()
	if err != nil {
		return fmt.Errorf("pencere deposu açılamadı: %w", err)
	}
	defer st.Close()

	start, end, err := resolveInitialWindow(st, key, trimStartFlag, trimEndFlag)
	if err != nil {
		return err
	}
	window, _ := newWindow(st, key, start, end)

	mainPlayer := newPlayer()
	defer mainPlayer.Close()
	if err := mainPlayer.Load(key, true); err != nil {
		return fmt.Errorf("ses yüklenemedi: %w", err)
	}

	applyBackendDefault(cmd, "backend", &trimBackend)
	applyStepDefault(cmd, "step", &trimStepFlag)
	backend := trimBackend

	var previews previewer
	renderer, err := newRenderer(backend)
	if err != nil {
		ui.PrintWarning("Önizleme devre dışı: " + err.Error())
	} else {
		dir, err := ensurePreviewTempDir()
		if err != nil {
			return err
		}
		previewPlayer := newPlayer()
		defer previewPlayer.Close()

		req, err := preview.New(preview.Options{
			Renderer: renderer,
			Player:   previewPlayer,
			TempDir:  dir,
			OnPreview: func(s float64, e *float64) {
				appLog.Info("önizleme çalındı", "source", key, "start", s, "end", e)
			},
			Logger: appLog,
		})
		if err != nil {
			return err
		}
		defer req.Close()
		previews = req
	}

	controller := playback.NewController(mainPlayer, window, appLog)
	discover := func(ctx context.Context) (float64, error) {
		d, err := probeSource(ctx, key)
		if err == nil {
			return d, nil
		}
		appLog.Debug("ffprobe süre okuyamadı, mpv deneniyor", "err", err)
		d, mpvErr := mainPlayer.WaitDuration(activeProjectConfig.Timeout)
		if mpvErr != nil {
			if errors.Is(mpvErr, media.ErrMetadataUnavailable) {
				return 0, media.ErrMetadataUnavailable
			}
			return 0, fmt.Errorf("%w: %v", media.ErrMetadataUnavailable, mpvErr)
		}
		return d, nil
	}

	err = runTrimmerProgram(trimmerConfig{
		source:         key,
		label:          filepath.Base(key),
		window:         window,
		playback:       controller,
		previews:       previews,
		discover:       discover,
		step:           trimStepFlag,
		interval:       activeProjectConfig.TickInterval,
		previewTimeout: activeProjectConfig.Timeout,
	})
	if err != nil {
		return err
	}

	if !isRemoteSource(key) {
		if err := config.RememberSourceDir(filepath.Dir(key)); err != nil {
			appLog.Warn("son dizin kaydedilemedi", "err", err)
		}
	}
	ui.PrintWindow(key, window.Snapshot())
	return nil
}

func init() {
	addTrimFlags(trimCmd)
	rootCmd.AddCommand(trimCmd)
}
