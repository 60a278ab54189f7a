package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/playback"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var (
	playStart string
	playEnd   string
	playLoop  bool
)

var playCmd = &cobra.Command{
	Use:   "play <kaynak>",
	Short: "Kırpma aralığını terminalde çal",
	Long: `Kayıtlı (veya flag ile verilen) aralığı baştan sona bir kez çalar.
Bitişe gelindiğinde çalma durur ve konum başlangıca döner.

Örnekler:
  audiotrim play alert.mp3
  audiotrim play alert.mp3 --start 1 --end 4 --loop`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		if err := checkSource(source); err != nil {
			return err
		}
		key := sourceKey(source)

		st, err := openWindowStore()
		if err != nil {
			return fmt.Errorf("pencere deposu açılamadı: %w", err)
		}
		start, end, err := resolveInitialWindow(st, key, playStart, playEnd)
		st.Close()
		if err != nil {
			return err
		}
		window := trim.New(trim.Options{Start: start, End: end})

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		p := newPlayer()
		defer p.Close()
		if err := p.Load(key, true); err != nil {
			return fmt.Errorf("ses yüklenemedi: %w", err)
		}

		d, err := probeSource(ctx, key)
		if err != nil {
			d, err = p.WaitDuration(activeProjectConfig.Timeout)
		}
		if err == nil && !window.DiscoverDuration(d) {
			err = media.ErrMetadataUnavailable
		}
		if err != nil {
			return fmt.Errorf("çalma başlatılamaz: %w", err)
		}

		ctrl := playback.NewController(p, window, appLog)
		bar := ui.NewPlaybackBar(filepath.Base(key))
		err = followPlayback(ctx, ctrl, window, bar, playLoop)
		fmt.Fprintln(ui.Out)
		if errors.Is(err, context.Canceled) {
			ui.PrintInfo("Çalma durduruldu.")
			return nil
		}
		return err
	},
}

// followPlayback aralığı çalar ve çubuğu günceller. loop kapalıysa ilk
// bitişte döner.
func followPlayback(ctx context.Context, ctrl *playback.Controller, w *trim.Window, bar *ui.PlaybackBar, loop bool) error {
	if !w.Snapshot().Playable() {
		return fmt.Errorf("çalınacak aralık boş")
	}
	if err := ctrl.Play(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statuses := make(chan playback.Status, 1)
	done := make(chan error, 1)
	go func() {
		done <- ctrl.Run(ctx, activeProjectConfig.TickInterval, statuses)
	}()

	for {
		select {
		case err := <-done:
			_ = ctrl.Pause()
			return err
		case s := <-statuses:
			playing := s.State == playback.Playing
			bar.Update(w.Snapshot(), s.CurrentTime, playing)
			if playing {
				continue
			}
			if !loop {
				cancel()
				<-done
				return nil
			}
			if err := ctrl.Play(); err != nil {
				cancel()
				<-done
				return err
			}
		}
	}
}

func init() {
	playCmd.Flags().StringVar(&playStart, "start", "", "Başlangıç zamanı (sn veya mm:ss)")
	playCmd.Flags().StringVar(&playEnd, "end", "", "Bitiş zamanı (boş: dosya sonu)")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "Aralığı Ctrl+C'ye kadar tekrar çal")

	rootCmd.AddCommand(playCmd)
}
