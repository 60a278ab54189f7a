package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/audiotrim-cli/internal/playback"
	"github.com/mlihgenel/audiotrim-cli/internal/trim"
)

func (m trimmerModel) View() string {
	snap := m.cfg.window.Snapshot()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ✂ Uyarı Sesi Kırpma "))
	b.WriteString("\n")
	b.WriteString(textStyle.Render("  Dosya: "))
	b.WriteString(pathStyle.Render(m.cfg.label))
	b.WriteString("\n\n")

	barWidth := 60
	if m.width > 0 {
		barWidth = m.width - 8
	}
	if barWidth > 100 {
		barWidth = 100
	}
	b.WriteString("  ")
	b.WriteString(timelineBar(snap, m.status.CurrentTime, barWidth))
	b.WriteString("\n\n")

	b.WriteString(m.viewPlayback(snap))
	b.WriteString("\n\n")

	startPrefix, endPrefix := "  ", "  "
	startStyle, endStyle := infoStyle, infoStyle
	if m.focus == markerStart {
		startPrefix, startStyle = "▸ ", focusStyle
	} else {
		endPrefix, endStyle = "▸ ", focusStyle
	}
	b.WriteString(startStyle.Render(fmt.Sprintf("%sBaşlangıç: %s", startPrefix, trim.FormatTimestamp(snap.Start))))
	b.WriteString("\n")
	endLabel := "dosya sonu"
	if snap.HasEnd {
		endLabel = trim.FormatTimestamp(snap.End)
	}
	b.WriteString(endStyle.Render(fmt.Sprintf("%sBitiş:     %s", endPrefix, endLabel)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("  Seçili Süre: %s", trim.FormatTimestamp(snap.Length()))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Adım: %gs", m.step)))
	b.WriteString("\n")

	if line := m.viewNotice(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m trimmerModel) viewPlayback(snap trim.Snapshot) string {
	switch {
	case m.loadingDuration:
		frame := spinnerFrames[m.spinnerTick%len(spinnerFrames)]
		return infoStyle.Render(fmt.Sprintf("  %s Süre okunuyor...", frame))
	case !snap.Known:
		return warningStyle.Render("  ⚠ Süre okunamadı; çalma devre dışı, sınırlar yine düzenlenebilir")
	case snap.Duration == 0:
		return warningStyle.Render("  ⚠ Ses dosyası boş (0 sn)")
	}

	icon := "⏸ Durdu"
	style := dimStyle
	if m.status.State == playback.Playing {
		icon = "▶ Çalıyor"
		style = successStyle
	}
	return style.Render(fmt.Sprintf("  %s  %s / %s", icon,
		trim.FormatTimestamp(m.status.CurrentTime), trim.FormatTimestamp(snap.Duration)))
}

func (m trimmerModel) viewNotice() string {
	switch {
	case m.errMsg != "":
		return errorStyle.Render("  ✗ "+m.errMsg) + dimStyle.Render("  (esc)")
	case m.previewBusy:
		frame := spinnerFrames[m.spinnerTick%len(spinnerFrames)]
		return infoStyle.Render(fmt.Sprintf("  %s Önizleme hazırlanıyor...", frame))
	case m.previewInfo != "":
		return successStyle.Render("  ✓ " + m.previewInfo)
	case m.durationErr != nil:
		return warningStyle.Render("  " + m.durationErr.Error())
	}
	return ""
}

// timelineBar tüm dosyayı gösteren çubuğu çizer: seçili aralık vurgulu,
// sınırlar ◆, çalma konumu ● ile gösterilir.
func timelineBar(snap trim.Snapshot, current float64, width int) string {
	if width < 20 {
		width = 20
	}
	left, span := snap.Highlight()
	startPos := int(left * float64(width-1))
	endPos := int((left + span) * float64(width-1))
	if endPos < startPos {
		endPos = startPos
	}
	if endPos > width-1 {
		endPos = width - 1
	}
	cursor := -1
	if snap.Known && snap.Duration > 0 {
		cursor = int(snap.Progress(current) * float64(width-1))
	}

	rangeStyle := lipgloss.NewStyle().Foreground(accentColor)
	baseStyle := lipgloss.NewStyle().Foreground(dimTextColor)
	markerStyle := lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)

	var b strings.Builder
	b.WriteString(baseStyle.Render("["))
	for i := 0; i < width; i++ {
		switch {
		case i == cursor && i != startPos && i != endPos:
			b.WriteString(cursorStyle.Render("●"))
		case snap.Known && (i == startPos || i == endPos):
			b.WriteString(markerStyle.Render("◆"))
		case i >= startPos && i <= endPos:
			b.WriteString(rangeStyle.Render("━"))
		default:
			b.WriteString(baseStyle.Render("─"))
		}
	}
	b.WriteString(baseStyle.Render("]"))
	return b.String()
}
