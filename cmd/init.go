package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [dizin]",
	Short: "Örnek .audiotrim.toml oluştur",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("dizin bulunamadı: %s", dir)
		}
		path, err := config.WriteExampleProjectConfig(dir)
		if err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Ayar dosyası oluşturuldu: %s", path))
		if config.IsFirstRun() {
			if err := config.MarkFirstRunDone(); err != nil {
				appLog.Debug("ilk çalıştırma işaretlenemedi", "err", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
