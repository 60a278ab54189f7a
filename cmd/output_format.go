package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mlihgenel/audiotrim-cli/internal/trim"
	"github.com/mlihgenel/audiotrim-cli/internal/ui"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

var outputFormat = OutputFormatText

func NormalizeOutputFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", OutputFormatText:
		return OutputFormatText
	case OutputFormatJSON:
		return OutputFormatJSON
	default:
		return ""
	}
}

func isJSONOutput() bool {
	return NormalizeOutputFormat(outputFormat) == OutputFormatJSON
}

func validateOutputFormat() error {
	if NormalizeOutputFormat(outputFormat) == "" {
		return fmt.Errorf("geçersiz output-format: %s (text|json)", outputFormat)
	}
	return nil
}

func printJSON(payload any) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// windowJSON kırpma aralığının makine okunur halidir.
type windowJSON struct {
	Source   string   `json:"source"`
	Start    float64  `json:"start"`
	End      *float64 `json:"end,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

func toWindowJSON(source string, s trim.Snapshot) windowJSON {
	out := windowJSON{Source: source, Start: s.Start}
	if s.HasEnd {
		e := s.End
		out.End = &e
	}
	if s.Known {
		d := s.Duration
		out.Duration = &d
	}
	return out
}
