package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/store"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var (
	windowSetStart string
	windowSetEnd   string
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Kayıtlı kırpma aralıklarını yönet",
}

var windowGetCmd = &cobra.Command{
	Use:   "get <kaynak>",
	Short: "Kaynağın kayıtlı aralığını göster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openWindowStore()
		if err != nil {
			return err
		}
		defer st.Close()

		key := sourceKey(args[0])
		saved, err := st.Get(key)
		if errors.Is(err, store.ErrNotFound) {
			if isJSONOutput() {
				return printJSON(windowJSON{Source: key})
			}
			ui.PrintInfo(fmt.Sprintf("%s için kayıtlı aralık yok (tüm dosya çalınır)", key))
			return nil
		}
		if err != nil {
			return err
		}
		if isJSONOutput() {
			return printJSON(toWindowJSON(key, savedSnapshot(saved)))
		}
		ui.PrintWindow(key, savedSnapshot(saved))
		return nil
	},
}

var windowSetCmd = &cobra.Command{
	Use:   "set <kaynak>",
	Short: "Aralığı flag'lerle ayarla ve kaydet",
	Long: `Başlangıç/bitiş değerlerini dosya süresine göre kısıtlayıp kaydeder.
Verilmeyen sınır kayıtlı değerini korur.

Örnekler:
  audiotrim window set alert.mp3 --start 1.5
  audiotrim window set alert.mp3 --start 0:02 --end 0:06,5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if windowSetStart == "" && windowSetEnd == "" {
			return fmt.Errorf("--start veya --end belirtilmeli")
		}
		st, err := openWindowStore()
		if err != nil {
			return err
		}
		defer st.Close()

		key := sourceKey(args[0])
		start, end, err := resolveInitialWindow(st, key, windowSetStart, windowSetEnd)
		if err != nil {
			return err
		}
		snap, err := applyWindow(cmd, st, key, start, end, false)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Aralık kaydedildi")
		ui.PrintWindow(key, snap)
		return nil
	},
}

var windowResetCmd = &cobra.Command{
	Use:   "reset <kaynak>",
	Short: "Aralığı tüm dosyaya (0, süre) sıfırla",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openWindowStore()
		if err != nil {
			return err
		}
		defer st.Close()

		key := sourceKey(args[0])
		snap, err := applyWindow(cmd, st, key, 0, nil, true)
		if err != nil {
			return err
		}
		ui.PrintSuccess("Aralık sıfırlandı")
		ui.PrintWindow(key, snap)
		return nil
	},
}

var windowListCmd = &cobra.Command{
	Use:   "list",
	Short: "Kayıtlı tüm aralıkları listele",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openWindowStore()
		if err != nil {
			return err
		}
		defer st.Close()

		windows, err := st.List()
		if err != nil {
			return err
		}
		if isJSONOutput() {
			payload := make([]windowJSON, 0, len(windows))
			for _, w := range windows {
				payload = append(payload, toWindowJSON(w.Source, savedSnapshot(w)))
			}
			return printJSON(payload)
		}
		if len(windows) == 0 {
			ui.PrintInfo("Kayıtlı aralık yok.")
			return nil
		}
		ui.PrintTable([]string{"Kaynak", "Başlangıç", "Bitiş", "Güncellendi"}, windowRows(windows))
		return nil
	},
}

var windowDeleteCmd = &cobra.Command{
	Use:     "delete <kaynak>",
	Aliases: []string{"rm"},
	Short:   "Kayıtlı aralığı sil",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openWindowStore()
		if err != nil {
			return err
		}
		defer st.Close()

		key := sourceKey(args[0])
		if err := st.Delete(key); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("%s için aralık silindi", key))
		return nil
	},
}

// applyWindow değerleri bir trim.Window üzerinden geçirir; süre öğrenilince
// pencere kısıtları uygular ve sonucu depoya yazar. Süre okunamazsa
// değerler olduğu gibi kaydedilir (reset'te kayıt silinir).
func applyWindow(cmd *cobra.Command, st *store.Store, key string, start float64, end *float64, reset bool) (trim.Snapshot, error) {
	w, rec := newWindow(st, key, start, end)

	d, probeErr := probeSource(cmd.Context(), key)
	if probeErr != nil || !w.DiscoverDuration(d) {
		ui.PrintWarning("Süre okunamadı; değerler dosya süresine göre kısıtlanmadan kaydediliyor")
		if reset {
			if err := st.Delete(key); err != nil && !errors.Is(err, store.ErrNotFound) {
				return trim.Snapshot{}, err
			}
			return trim.New(trim.Options{}).Snapshot(), nil
		}
		snap := w.Snapshot()
		saved := store.SavedWindow{Source: key, Start: snap.Start}
		if snap.HasEnd {
			e := snap.End
			saved.End = &e
		}
		return snap, st.Save(saved)
	}

	if reset {
		w.Reset()
	}
	if err := rec.Err(); err != nil {
		return trim.Snapshot{}, fmt.Errorf("aralık kaydedilemedi: %w", err)
	}
	return w.Snapshot(), nil
}

func savedSnapshot(w store.SavedWindow) trim.Snapshot {
	s := trim.Snapshot{Start: w.Start}
	if w.End != nil {
		s.End = *w.End
		s.HasEnd = true
	}
	return s
}

func windowRows(windows []store.SavedWindow) [][]string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		end := "dosya sonu"
		if w.End != nil {
			end = trim.FormatTimestamp(*w.End)
		}
		updated := "-"
		if !w.UpdatedAt.IsZero() {
			updated = w.UpdatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{w.Source, trim.FormatTimestamp(w.Start), end, updated})
	}
	return rows
}

func init() {
	windowSetCmd.Flags().StringVar(&windowSetStart, "start", "", "Başlangıç zamanı (sn veya mm:ss)")
	windowSetCmd.Flags().StringVar(&windowSetEnd, "end", "", "Bitiş zamanı")

	windowCmd.AddCommand(windowGetCmd, windowSetCmd, windowResetCmd, windowListCmd, windowDeleteCmd)
	rootCmd.AddCommand(windowCmd)
}
