package media

import (
	"os/exec"
	"strings"
)

// ExternalTool harici bir aracın durumunu temsil eder
type ExternalTool struct {
	Name      string
	Purpose   string
	Available bool
	Path      string
	Version   string
}

// CheckDependencies ffmpeg, ffprobe ve mpv'nin kurulu olup olmadığını kontrol eder
func CheckDependencies() []ExternalTool {
	specs := []struct {
		name    string
		purpose string
		find    func() (string, error)
		verFlag string
	}{
		{"ffprobe", "süre okuma", FindFFprobe, "-version"},
		{"mpv", "çalma", FindMpv, "--version"},
		{"ffmpeg", "yerel önizleme render", FindFFmpeg, "-version"},
	}

	tools := make([]ExternalTool, 0, len(specs))
	for _, s := range specs {
		tool := ExternalTool{Name: s.name, Purpose: s.purpose}
		if path, err := s.find(); err == nil {
			tool.Available = true
			tool.Path = path
			if out, err := exec.Command(path, s.verFlag).Output(); err == nil {
				tool.Version = firstLine(string(out))
			}
		}
		tools = append(tools, tool)
	}
	return tools
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
