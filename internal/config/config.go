package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig kullanıcıya ait uygulama durumunu tutar
type AppConfig struct {
	FirstRunCompleted bool   `json:"first_run_completed"`
	LastSourceDir     string `json:"last_source_dir,omitempty"`
}

// Dir uygulama dizinini döner (~/.audiotrim). Log dosyası ve varsayılan
// veritabanı da burada durur.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".audiotrim"), nil
}

// configPath yapılandırma dosya yolunu döner
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultStorePath kırpma pencerelerinin varsayılan veritabanı yoludur.
func DefaultStorePath() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "audiotrim", "windows.db")
	}
	return filepath.Join(dir, "windows.db")
}

// LoadConfig yapılandırmayı dosyadan okur
func LoadConfig() (*AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Dosya yoksa varsayılan config döndür
		return &AppConfig{}, nil
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}, nil
	}
	return &cfg, nil
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsFirstRun uygulamanın ilk kez çalıştırılıp çalıştırılmadığını kontrol eder
func IsFirstRun() bool {
	cfg, _ := LoadConfig()
	return !cfg.FirstRunCompleted
}

// MarkFirstRunDone ilk çalıştırma tamamlandı olarak işaretler
func MarkFirstRunDone() error {
	cfg, _ := LoadConfig()
	cfg.FirstRunCompleted = true
	return SaveConfig(cfg)
}

// RememberSourceDir son açılan ses dosyasının dizinini kaydeder
func RememberSourceDir(dir string) error {
	cfg, _ := LoadConfig()
	if cfg.LastSourceDir == dir {
		return nil
	}
	cfg.LastSourceDir = dir
	return SaveConfig(cfg)
}
