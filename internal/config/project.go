package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const projectConfigFileName = ".audiotrim.toml"

// MaxTickInterval çalma döngüsü yoklamasının üst sınırıdır.
const MaxTickInterval = 100 * time.Millisecond

//go:embed audiotrim.example.toml
var exampleProjectConfig []byte

// ProjectConfig proje bazlı varsayılanları tutar.
type ProjectConfig struct {
	RenderURL     string
	RenderBackend string
	AuthToken     string
	Timeout       time.Duration
	RateLimit     float64
	TickInterval  time.Duration
	Step          float64
	StorePath     string
	MpvPath       string
	LogLevel      string
}

// fileConfig dosyadaki ham değerlerdir; süreler metin olarak yazılır ("30s").
type fileConfig struct {
	RenderURL     string  `toml:"render_url"`
	RenderBackend string  `toml:"render_backend"`
	AuthToken     string  `toml:"auth_token"`
	Timeout       string  `toml:"timeout"`
	RateLimit     float64 `toml:"rate_limit"`
	TickInterval  string  `toml:"tick_interval"`
	Step          float64 `toml:"step"`
	StorePath     string  `toml:"store_path"`
	MpvPath       string  `toml:"mpv_path"`
	LogLevel      string  `toml:"log_level"`
}

// Defaults dosya yokken kullanılan değerleri döner.
func Defaults() *ProjectConfig {
	return &ProjectConfig{
		RenderBackend: "http",
		Timeout:       30 * time.Second,
		RateLimit:     2,
		TickInterval:  50 * time.Millisecond,
		Step:          0.5,
		StorePath:     DefaultStorePath(),
		LogLevel:      "info",
	}
}

// LoadProjectConfig currentDir'den yukarı doğru .audiotrim.toml arar.
// Dosya yoksa (nil, "", nil) döner.
func LoadProjectConfig(currentDir string) (*ProjectConfig, string, error) {
	path, err := findProjectConfigPath(currentDir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return nil, "", nil
	}

	cfg, err := parseProjectConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// WriteExampleProjectConfig dir altına örnek .audiotrim.toml yazar; dosya
// zaten varsa hata döner.
func WriteExampleProjectConfig(dir string) (string, error) {
	path := filepath.Join(dir, projectConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s zaten mevcut", path)
	}
	if err := os.WriteFile(path, exampleProjectConfig, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func findProjectConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("gecersiz calisma dizini")
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, projectConfigFileName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func parseProjectConfig(path string) (*ProjectConfig, error) {
	var raw fileConfig
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s okunamadi: %w", path, err)
	}

	cfg := Defaults()
	if v := strings.TrimSpace(raw.RenderURL); v != "" {
		cfg.RenderURL = v
	}
	if v := strings.TrimSpace(raw.RenderBackend); v != "" {
		cfg.RenderBackend = strings.ToLower(v)
	}
	cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	if md.IsDefined("timeout") {
		if cfg.Timeout, err = parseDuration("timeout", raw.Timeout); err != nil {
			return nil, err
		}
	}
	if md.IsDefined("rate_limit") {
		cfg.RateLimit = raw.RateLimit
	}
	if md.IsDefined("tick_interval") {
		if cfg.TickInterval, err = parseDuration("tick_interval", raw.TickInterval); err != nil {
			return nil, err
		}
	}
	if md.IsDefined("step") {
		cfg.Step = raw.Step
	}
	if v := strings.TrimSpace(raw.StorePath); v != "" {
		cfg.StorePath = resolveRelative(path, v)
	}
	if v := strings.TrimSpace(raw.MpvPath); v != "" {
		cfg.MpvPath = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate değer aralıklarını kontrol eder.
func (c *ProjectConfig) Validate() error {
	switch c.RenderBackend {
	case "http", "ffmpeg":
	default:
		return fmt.Errorf("render_backend http veya ffmpeg olmali: %q", c.RenderBackend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout negatif olamaz")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit 0 veya daha buyuk olmali")
	}
	if c.TickInterval <= 0 || c.TickInterval >= MaxTickInterval {
		return fmt.Errorf("tick_interval 0 ile %s arasinda olmali", MaxTickInterval)
	}
	if c.Step <= 0 || c.Step > 60 {
		return fmt.Errorf("step 0-60 saniye araliginda olmali")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("gecersiz log_level: %q", c.LogLevel)
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s gecersiz sure degeri: %q", key, raw)
	}
	return d, nil
}

// resolveRelative göreli yolları config dosyasının dizinine göre çözer.
func resolveRelative(configFile, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configFile), p)
}
