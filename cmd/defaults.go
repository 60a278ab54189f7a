package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
)

const (
	envRenderURL     = "AUDIOTRIM_RENDER_URL"
	envRenderBackend = "AUDIOTRIM_RENDER_BACKEND"
	envAuthToken     = "AUDIOTRIM_AUTH_TOKEN"
	envTimeout       = "AUDIOTRIM_TIMEOUT"
	envStep          = "AUDIOTRIM_STEP"
	envStorePath     = "AUDIOTRIM_STORE_PATH"
	envMpvPath       = "AUDIOTRIM_MPV_PATH"
	envLogLevel      = "AUDIOTRIM_LOG_LEVEL"
)

// applyEnvDefaults ortam değişkenlerini proje ayarlarının üstüne yazar.
func applyEnvDefaults(cfg *config.ProjectConfig) error {
	if v := strings.TrimSpace(os.Getenv(envRenderURL)); v != "" {
		cfg.RenderURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envRenderBackend)); v != "" {
		cfg.RenderBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(envAuthToken)); v != "" {
		cfg.AuthToken = v
	}
	if v, ok := readEnvDuration(envTimeout); ok {
		cfg.Timeout = v
	}
	if v, ok := readEnvFloat(envStep); ok {
		cfg.Step = v
	}
	if v := strings.TrimSpace(os.Getenv(envStorePath)); v != "" {
		cfg.StorePath = v
	}
	if v := strings.TrimSpace(os.Getenv(envMpvPath)); v != "" {
		cfg.MpvPath = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg.Validate()
}

// applyStepDefault flag verilmediyse adımı ayarlardan alır.
func applyStepDefault(cmd *cobra.Command, flagName string, value *float64) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.Step > 0 {
		*value = activeProjectConfig.Step
	}
}

// applyBackendDefault flag verilmediyse render backend'ini ayarlardan alır.
func applyBackendDefault(cmd *cobra.Command, flagName string, value *string) {
	if cmd.Flags().Changed(flagName) {
		*value = strings.ToLower(strings.TrimSpace(*value))
		return
	}
	if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.RenderBackend) != "" {
		*value = activeProjectConfig.RenderBackend
	}
}

func readEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
