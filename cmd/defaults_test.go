package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/config"
)

func TestApplyEnvDefaultsOverridesConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.RenderURL = "http://from-config"

	t.Setenv(envRenderURL, "https://from-env")
	t.Setenv(envRenderBackend, "FFMPEG")
	t.Setenv(envTimeout, "5s")
	t.Setenv(envStep, "0,25")

	if err := applyEnvDefaults(cfg); err != nil {
		t.Fatalf("applyEnvDefaults failed: %v", err)
	}
	if cfg.RenderURL != "https://from-env" {
		t.Fatalf("expected env render url, got %s", cfg.RenderURL)
	}
	if cfg.RenderBackend != "ffmpeg" {
		t.Fatalf("expected ffmpeg backend, got %s", cfg.RenderBackend)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
	if cfg.Step != 0.25 {
		t.Fatalf("unexpected step: %v", cfg.Step)
	}
}

func TestApplyEnvDefaultsValidates(t *testing.T) {
	t.Setenv(envRenderBackend, "grpc")
	if err := applyEnvDefaults(config.Defaults()); err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestApplyStepDefaultRespectsChangedFlag(t *testing.T) {
	prevCfg := activeProjectConfig
	defer func() { activeProjectConfig = prevCfg }()
	activeProjectConfig = config.Defaults()
	activeProjectConfig.Step = 2

	c := &cobra.Command{Use: "test"}
	var step float64
	c.Flags().Float64Var(&step, "step", 0.5, "")

	applyStepDefault(c, "step", &step)
	if step != 2 {
		t.Fatalf("expected config step, got %v", step)
	}

	if err := c.Flags().Set("step", "0.1"); err != nil {
		t.Fatalf("set step flag failed: %v", err)
	}
	applyStepDefault(c, "step", &step)
	if step != 0.1 {
		t.Fatalf("expected manual step unchanged, got %v", step)
	}
}

func TestReadEnvHelpers(t *testing.T) {
	t.Setenv("X_FLOAT", "1.5")
	if v, ok := readEnvFloat("X_FLOAT"); !ok || v != 1.5 {
		t.Fatalf("unexpected float parse result")
	}

	t.Setenv("X_DUR", "2s")
	if _, ok := readEnvDuration("X_DUR"); !ok {
		t.Fatalf("expected duration parse success")
	}

	t.Setenv("X_BAD", "abc")
	if _, ok := readEnvFloat("X_BAD"); ok {
		t.Fatalf("expected float parse failure")
	}
}
