package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// ErrMetadataUnavailable kaynak süresi okunamadığında döner.
var ErrMetadataUnavailable = errors.New("ses dosyasının süresi okunamadı")

// ProbeDuration ffprobe ile kaynağın süresini (saniye) okur. Kaynak yerel
// dosya veya ffprobe'un açabildiği bir URL olabilir.
func ProbeDuration(ctx context.Context, ffprobePath, source string) (float64, error) {
	if strings.TrimSpace(ffprobePath) == "" {
		found, err := FindFFprobe()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
		}
		ffprobePath = found
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	return parseDurationOutput(string(out))
}

// parseDurationOutput ffprobe çıktısındaki süreyi çözer. "N/A" veya sayısal
// olmayan değerler metadata yok sayılır; 0 süre geçerlidir.
func parseDurationOutput(out string) (float64, error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	sec, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return 0, ErrMetadataUnavailable
	}
	return sec, nil
}

func lookupTool(name string) (string, error) {
	paths := []string{name}
	if runtime.GOOS == "darwin" {
		paths = append(paths, "/opt/homebrew/bin/"+name, "/usr/local/bin/"+name)
	} else if runtime.GOOS == "linux" {
		paths = append(paths, "/usr/bin/"+name, "/usr/local/bin/"+name)
	}
	for _, p := range paths {
		if path, err := exec.LookPath(p); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s bulunamadı", name)
}

// FindFFprobe sistemde ffprobe'u arar.
func FindFFprobe() (string, error) {
	return lookupTool("ffprobe")
}

// FindFFmpeg sistemde ffmpeg'i arar.
func FindFFmpeg() (string, error) {
	return lookupTool("ffmpeg")
}

// FindMpv sistemde mpv'yi arar.
func FindMpv() (string, error) {
	return lookupTool("mpv")
}
