package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jywlabs/describer/internal/config"
)

func TestInitConfigDir(t *testing.T) {
	t.Run("creates default config", func(t *testing.T) {
		dir := t.TempDir()
		var buf bytes.Buffer

		if err := initConfigDir(dir, &buf); err != nil {
			t.Fatalf("initConfigDir() error: %v", err)
		}
		if !strings.Contains(buf.String(), "Initialized .describer/") {
			t.Errorf("output %q missing confirmation", buf.String())
		}

		t.Setenv(config.EnvModel, "")
		t.Setenv(config.EnvSystemPrompt, "")
		t.Setenv(config.EnvFlattenCommand, "")
		t.Setenv(config.EnvLLMCommand, "")
		cfg, err := config.Load(dir)
		if err != nil {
			t.Fatalf("config.Load() on generated config: %v", err)
		}
		if *cfg != config.Default() {
			t.Errorf("generated config = %+v, want defaults %+v", *cfg, config.Default())
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, ".describer"), 0755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}

		err := initConfigDir(dir, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("initConfigDir() error = %v, want already exists", err)
		}
	})
}

func TestShowConfig(t *testing.T) {
	t.Setenv(config.EnvModel, "env-model")

	var buf bytes.Buffer
	if err := showConfig(t.TempDir(), &buf); err != nil {
		t.Fatalf("showConfig() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "using defaults") {
		t.Errorf("output %q missing defaults notice", out)
	}
	if !strings.Contains(out, "model: env-model") {
		t.Errorf("output %q missing env override", out)
	}
}
