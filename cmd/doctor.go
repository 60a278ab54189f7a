package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Harici araçları ve ayarları kontrol et",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools := media.CheckDependencies()
		if isJSONOutput() {
			return printJSON(map[string]any{
				"tools":          tools,
				"project_config": activeProjectConfigPath,
				"store_path":     activeProjectConfig.StorePath,
				"render_backend": activeProjectConfig.RenderBackend,
				"render_url":     activeProjectConfig.RenderURL,
				"log_level":      logLevelName(appLog),
			})
		}

		ui.PrintBanner(appVersion)
		ui.PrintTable([]string{"Araç", "Görev", "Durum", "Sürüm"}, toolRows(tools))
		fmt.Fprintln(ui.Out)

		configPath := activeProjectConfigPath
		if configPath == "" {
			configPath = "(yok, varsayılanlar kullanılıyor)"
		}
		renderURL := activeProjectConfig.RenderURL
		if renderURL == "" {
			renderURL = "(ayarlanmadı)"
		}
		rows := [][]string{
			{"Proje ayarı", configPath},
			{"Pencere deposu", activeProjectConfig.StorePath},
			{"Render backend", activeProjectConfig.RenderBackend},
			{"Render URL", renderURL},
			{"Log seviyesi", logLevelName(appLog)},
		}
		if dir, err := config.Dir(); err == nil {
			rows = append(rows, []string{"Ayar dizini", dir})
		}
		ui.PrintTable([]string{"Ayar", "Değer"}, rows)

		for _, t := range tools {
			if !t.Available && t.Name != "ffmpeg" {
				ui.PrintWarning(fmt.Sprintf("%s bulunamadı; %s çalışmaz", t.Name, t.Purpose))
			}
		}
		return nil
	},
}

func toolRows(tools []media.ExternalTool) [][]string {
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		status := ui.IconError + " yok"
		version := "-"
		if t.Available {
			status = ui.IconSuccess + " kurulu"
			if t.Version != "" {
				version = t.Version
			}
		}
		rows = append(rows, []string{t.Name, t.Purpose, status, version})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
