package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

// Color ANSI renk kodları
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
)

// Icons kullanıcı dostu ikonlar
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
	IconInfo    = "ℹ️ "
	IconAudio   = "🎵"
	IconTrim    = "✂️ "
	IconPlay    = "▶"
	IconPause   = "⏸"
	IconTime    = "⏱️ "
)

// Out tüm yardımcıların yazdığı hedeftir; testlerde değiştirilebilir.
var Out io.Writer = os.Stdout

// PrintBanner uygulama başlığını yazdırır
func PrintBanner(version string) {
	fmt.Fprintln(Out, Cyan+Bold+`
  ╔═══════════════════════════════════════════════╗
  ║  `+fmt.Sprintf("%-45s", "AudioTrim CLI  v"+version)+`║
  ║  Uyarı sesleri için kırpma ve önizleme        ║
  ╚═══════════════════════════════════════════════╝`+Reset)
}

// PrintSuccess başarılı mesaj
func PrintSuccess(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconSuccess, Green, msg, Reset)
}

// PrintError hata mesajı
func PrintError(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconError, Red, msg, Reset)
}

// PrintWarning uyarı mesajı
func PrintWarning(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconWarning, Yellow, msg, Reset)
}

// PrintInfo bilgi mesajı
func PrintInfo(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconInfo, Blue, msg, Reset)
}

// PrintWindow bir kaynağın kırpma aralığını yazdırır.
func PrintWindow(source string, s trim.Snapshot) {
	end := "dosya sonu"
	if s.HasEnd {
		end = trim.FormatTimestamp(s.End)
	}
	fmt.Fprintf(Out, "%s %s%s%s\n", IconTrim, Bold, source, Reset)
	fmt.Fprintf(Out, "  Başlangıç: %s%s%s\n", Cyan, trim.FormatTimestamp(s.Start), Reset)
	fmt.Fprintf(Out, "  Bitiş:     %s%s%s\n", Cyan, end, Reset)
	if s.Known {
		fmt.Fprintf(Out, "  Uzunluk:   %s%s%s / %s\n", Green, trim.FormatTimestamp(s.Length()), Reset, trim.FormatTimestamp(s.Duration))
	}
}

// PrintDuration süre bilgisi
func PrintDuration(d time.Duration) {
	fmt.Fprintf(Out, "%s  Süre: %s%s%s\n", IconTime, Cyan, formatDuration(d), Reset)
}

// PlaybackBar çalma konumunu kırpma penceresi üzerinde gösterir.
type PlaybackBar struct {
	Width int
	Label string
}

// NewPlaybackBar yeni bir çalma çubuğu oluşturur
func NewPlaybackBar(label string) *PlaybackBar {
	return &PlaybackBar{Width: 40, Label: label}
}

// Render çubuğu tek satır olarak üretir: pencere dışı sönük, pencere içi
// yeşil, çalma konumu imleçle gösterilir.
func (pb *PlaybackBar) Render(s trim.Snapshot, current float64, playing bool) string {
	left, width := s.Highlight()
	from := int(left * float64(pb.Width))
	to := int((left + width) * float64(pb.Width))
	cursor := -1
	if s.Known && s.Duration > 0 {
		cursor = int(s.Progress(current) * float64(pb.Width))
		if cursor >= pb.Width {
			cursor = pb.Width - 1
		}
	}

	var b strings.Builder
	for i := 0; i < pb.Width; i++ {
		switch {
		case i == cursor:
			b.WriteString(Bold + "┃" + Reset)
		case i >= from && i < to:
			b.WriteString(Green + "█" + Reset)
		default:
			b.WriteString(Dim + "░" + Reset)
		}
	}

	icon := IconPause
	if playing {
		icon = IconPlay
	}
	return fmt.Sprintf("  %s %s%s%s [%s] %s%s%s / %s",
		icon, Bold, pb.Label, Reset, b.String(),
		Cyan, trim.FormatTimestamp(current), Reset,
		trim.FormatTimestamp(s.EffectiveEnd()))
}

// Update çubuğu aynı satırda yeniden çizer.
func (pb *PlaybackBar) Update(s trim.Snapshot, current float64, playing bool) {
	fmt.Fprintf(Out, "\r%s", pb.Render(s, current, playing))
}

// PrintTable basit bir ASCII tablo yazdırır
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); i < len(colWidths) && n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	line := func(l, m, r string) string {
		parts := make([]string, len(colWidths))
		for i, w := range colWidths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return "  " + l + strings.Join(parts, m) + r
	}
	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-len([]rune(s)))
	}

	fmt.Fprintln(Out, line("┌", "┬", "┐"))
	header := "  │"
	for i, h := range headers {
		header += fmt.Sprintf(" %s%s%s │", Bold, pad(h, colWidths[i]), Reset)
	}
	fmt.Fprintln(Out, header)
	fmt.Fprintln(Out, line("├", "┼", "┤"))

	for _, row := range rows {
		out := "  │"
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			out += " " + pad(cell, colWidths[i]) + " │"
		}
		fmt.Fprintln(Out, out)
	}
	fmt.Fprintln(Out, line("└", "┴", "┘"))
}

// FormatBytes dosya boyutunu okunabilir yazar
func FormatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// formatDuration süreyi okunabilir formata çevirir
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
