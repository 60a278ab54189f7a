package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTimeInput "ss[.ms]", "mm:ss" ve "hh:mm:ss" biçimlerini saniyeye çevirir.
// Virgüllü ondalık da kabul edilir.
func parseTimeInput(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return 0, fmt.Errorf("boş değer")
	}

	if !strings.Contains(normalized, ":") {
		v, err := strconv.ParseFloat(normalized, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("geçersiz zaman: %s", raw)
		}
		return v, nil
	}

	parts := strings.Split(normalized, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
	}

	parsed := make([]float64, len(parts))
	for i, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
		}
		parsed[i] = v
	}

	if len(parsed) == 2 {
		if parsed[1] >= 60 {
			return 0, fmt.Errorf("saniye 60'tan küçük olmalı")
		}
		return parsed[0]*60 + parsed[1], nil
	}
	if parsed[1] >= 60 || parsed[2] >= 60 {
		return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı")
	}
	return parsed[0]*3600 + parsed[1]*60 + parsed[2], nil
}

// parseOptionalTime boş girdi için nil ("dosya sonu") döner.
func parseOptionalTime(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := parseTimeInput(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
