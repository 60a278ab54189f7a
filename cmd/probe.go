package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/store"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var probeCmd = &cobra.Command{
	Use:   "probe <kaynak>",
	Short: "Ses süresini ve kayıtlı aralığı göster",
	Long: `ffprobe ile kaynağın süresini okur ve varsa kayıtlı aralığı bu süreye
göre kısıtlanmış haliyle gösterir.

Örnekler:
  audiotrim probe alert.mp3
  audiotrim probe https://cdn.example.com/alert.mp3 --output-format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkSource(args[0]); err != nil {
			return err
		}
		key := sourceKey(args[0])

		d, err := probeSource(cmd.Context(), key)
		if err != nil {
			return err
		}

		var opts trim.Options
		if st, err := openWindowStore(); err == nil {
			saved, getErr := st.Get(key)
			st.Close()
			if getErr == nil {
				opts.Start, opts.End = saved.Start, saved.End
			} else if !errors.Is(getErr, store.ErrNotFound) {
				appLog.Warn("kayıtlı aralık okunamadı", "err", getErr)
			}
		}
		w := trim.New(opts)
		w.DiscoverDuration(d)
		snap := w.Snapshot()

		if isJSONOutput() {
			return printJSON(toWindowJSON(key, snap))
		}
		ui.PrintInfo(fmt.Sprintf("Süre: %s (%.3f sn)", trim.FormatTimestamp(d), d))
		ui.PrintWindow(key, snap)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
