package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
	"github.com/mlihgenel/audiotrim-cli/internal/logger"
	"github.com/mlihgenel/audiotrim-cli/internal/media"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

var (
	verbose bool

	appVersion = "dev"
	appCommit  = ""
	appDate    = ""

	// activeProjectConfig komut çalışmadan önce yüklenir; dosya yoksa varsayılanlardır.
	activeProjectConfig     = config.Defaults()
	activeProjectConfigPath string

	appLog = logger.Discard()
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appCommit = strings.TrimSpace(commit)
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	commit := appCommit
	if commit == "" {
		commit = "none"
	}
	return fmt.Sprintf(
		"AudioTrim CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, commit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "audiotrim",
	Short: "AudioTrim CLI - uyarı sesleri için kırpma ve önizleme",
	Long: `AudioTrim CLI — Bağış uyarısı seslerini kırpın, dinleyin ve önizleyin.

Bir ses dosyası üzerinde başlangıç/bitiş işaretçilerini ayarlar, seçilen
aralığı mpv ile çalar ve render servisinden kırpılmış önizleme ister.
Onaylanan aralıklar yerel ayar deposuna kaydedilir.

Gereksinimler: mpv (çalma), ffprobe (süre), ffmpeg (yerel render, opsiyonel)

Örnekler:
  audiotrim trim alert.mp3
  audiotrim trim https://cdn.example.com/alert.mp3 --start 1.5 --end 0:07
  audiotrim preview alert.mp3 --start 2 --end 6 --out kisa.mp3
  audiotrim play alert.mp3
  audiotrim window list
  audiotrim watch ./alerts
  audiotrim doctor`,
	Version:           appVersion,
	PersistentPreRunE: loadRuntime,
	Args:              cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if config.IsFirstRun() {
				printWelcome()
				return nil
			}
			return cmd.Help()
		}
		// Argümanla çalıştırıldığında interaktif kırpıcıyı aç
		return runTrimmer(cmd, args[0])
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hata: %s\n", err.Error())
	}
	return err
}

// loadRuntime proje ayarlarını ve logger'ı hazırlar.
func loadRuntime(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(); err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, path, err := config.LoadProjectConfig(cwd)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := applyEnvDefaults(cfg); err != nil {
		return err
	}
	activeProjectConfig = cfg
	activeProjectConfigPath = path

	appLog = logger.New(os.Stderr)
	appLog.SetLevel(logger.ParseLevel(cfg.LogLevel, verbose))
	if path != "" {
		appLog.Debug("proje ayarları yüklendi", "path", path)
	}
	return nil
}

// useFileLogger TUI terminali kullanırken logları dosyaya yönlendirir.
func useFileLogger() (func(), error) {
	dir, err := config.Dir()
	if err != nil {
		return func() {}, err
	}
	l, closer, err := logger.OpenFile(dir)
	if err != nil {
		return func() {}, err
	}
	l.SetLevel(logger.ParseLevel(activeProjectConfig.LogLevel, verbose))
	prev := appLog
	appLog = l
	return func() {
		appLog = prev
		closer.Close()
	}, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Detaylı çıktı modu")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", OutputFormatText, "Çıktı formatı: text veya json")
	addTrimFlags(rootCmd)

	SetVersionInfo(appVersion, appCommit, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}

// printWelcome ilk çalıştırmada araç durumunu ve ilk adımları gösterir.
func printWelcome() {
	ui.PrintBanner(appVersion)
	ui.PrintTable([]string{"Araç", "Görev", "Durum", "Sürüm"}, toolRows(media.CheckDependencies()))
	fmt.Fprintln(ui.Out)
	ui.PrintInfo("Başlamak için: audiotrim trim <ses-dosyası>")
	ui.PrintInfo("Render servisi için: audiotrim init ve render_url ayarı")
	if cfg, err := config.LoadConfig(); err == nil && cfg.LastSourceDir != "" {
		ui.PrintInfo("Son dizin: " + cfg.LastSourceDir)
	}
	if err := config.MarkFirstRunDone(); err != nil {
		appLog.Debug("ilk çalıştırma işaretlenemedi", "err", err)
	}
}

func logLevelName(l *log.Logger) string {
	return l.GetLevel().String()
}
