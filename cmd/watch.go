package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
	"github.com/mlihgenel/audiotrim-cli/internal/watch"
)

var (
	watchFrom      string
	watchRecursive bool
	watchInterval  time.Duration
	watchSettle    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dizin>",
	Short: "Klasörü izleyip yeni uyarı seslerine varsayılan aralık yaz",
	Long: `Belirtilen klasörü izler; yeni veya değişen ses dosyalarının süresini
ffprobe ile okuyup depoya (0, süre) penceresini kaydeder. Kayıtlı
penceresi olan dosyalara dokunulmaz.

Örnekler:
  audiotrim watch ./alerts
  audiotrim watch ./alerts --from mp3,ogg --recursive
  audiotrim watch ./alerts --interval 5s --settle 3s`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("izlenecek dizin bulunamadı: %s", root)
		}

		st, err := openWindowStore()
		if err != nil {
			return fmt.Errorf("pencere deposu açılamadı: %w", err)
		}
		defer st.Close()

		w, err := watch.NewAdaptiveWatcher(root, watchFrom, watchRecursive, watchSettle)
		if err != nil {
			ui.PrintWarning(fmt.Sprintf("Event izleme açılamadı, polling kullanılacak: %s", err.Error()))
		}
		defer w.Close()
		if err := w.Bootstrap(); err != nil {
			return err
		}

		seeder := &watch.Seeder{
			Probe: func(ctx context.Context, path string) (float64, error) {
				return probeSource(ctx, path)
			},
			Store: st,
			Log:   appLog,
		}

		ui.PrintInfo(fmt.Sprintf("İzleme başladı: %s (%s)", root, w.Mode()))
		ui.PrintInfo("Durdurmak için Ctrl+C kullanın.")

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		var events <-chan struct{}
		if ew, ok := w.(*watch.EventWatcher); ok {
			events = ew.Events()
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		for {
			select {
			case <-ticker.C:
			case <-events:
			case <-sigCh:
				ui.PrintInfo("İzleme durduruldu.")
				return nil
			}

			files, err := w.Poll(time.Now())
			if err != nil {
				ui.PrintError(fmt.Sprintf("İzleme hatası: %s", err.Error()))
				continue
			}
			for _, f := range files {
				reportSeed(seeder.Seed(ctx, sourceKey(f)))
			}
		}
	},
}

func reportSeed(res watch.SeedResult) {
	name := filepath.Base(res.Path)
	switch {
	case res.Err != nil:
		ui.PrintError(fmt.Sprintf("%s: %s", name, res.Err.Error()))
	case res.Skipped:
		if verbose {
			ui.PrintInfo(fmt.Sprintf("%s: kayıtlı pencere var, atlandı", name))
		}
	default:
		ui.PrintSuccess(fmt.Sprintf("%s: %s → %s kaydedildi", name,
			trim.FormatTimestamp(res.Window.Start), trim.FormatTimestamp(res.Window.End)))
	}
}

func init() {
	watchCmd.Flags().StringVarP(&watchFrom, "from", "f", "", "Sadece bu uzantılar (virgülle: mp3,ogg). Boş: tüm ses dosyaları")
	watchCmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", false, "Alt dizinleri de izle")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "Klasör tarama aralığı")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 1500*time.Millisecond, "Dosyanın stabil sayılması için bekleme süresi")

	rootCmd.AddCommand(watchCmd)
}
