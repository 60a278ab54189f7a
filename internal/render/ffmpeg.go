package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/mlihgenel/audiotrim-cli/internal/media"
)

// FFmpegRenderer önizlemeyi yerel ffmpeg ile üretir. Uzak servise erişilemeyen
// geliştirme ortamları için render_backend = "ffmpeg" ile seçilir.
type FFmpegRenderer struct {
	ffmpegPath string
	bitrate    string
}

// NewFFmpegRenderer ffmpeg'i bulur; path boşsa sistemde aranır.
func NewFFmpegRenderer(path string) (*FFmpegRenderer, error) {
	if strings.TrimSpace(path) == "" {
		found, err := media.FindFFmpeg()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return &FFmpegRenderer{ffmpegPath: path, bitrate: "192k"}, nil
}

// RenderPreview pencereyi mp3 olarak stdout'a yazdırır ve çıktıyı döner.
func (r *FFmpegRenderer) RenderPreview(ctx context.Context, req Request) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, r.ffmpegPath, r.previewArgs(req)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("ffmpeg önizleme hatası: %w", err)
		}
		return nil, fmt.Errorf("ffmpeg önizleme hatası: %w\n%s", err, msg)
	}
	if len(out) == 0 {
		return nil, ErrEmptyPreview
	}
	return io.NopCloser(bytes.NewReader(out)), nil
}

// previewArgs -ss girişten önce verildiği için zaman damgaları sıfırlanır;
// bu yüzden bitiş -t (süre) olarak geçilir.
func (r *FFmpegRenderer) previewArgs(req Request) []string {
	args := []string{"-loglevel", "error", "-nostdin"}
	if req.Start > 0 {
		args = append(args, "-ss", formatSeconds(req.Start))
	}
	args = append(args, "-i", req.Source)
	if req.End != nil {
		length := *req.End - req.Start
		if length <= 0 {
			length = 0.1
		}
		args = append(args, "-t", formatSeconds(length))
	}
	args = append(args, "-vn", "-codec:a", "libmp3lame", "-b:a", r.bitrate, "-f", "mp3", "pipe:1")
	return args
}
