package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jywlabs/describer/internal/describe"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	describerDir := filepath.Join(dir, ".describer")
	if err := os.MkdirAll(describerDir, 0755); err != nil {
		t.Fatalf("Failed to create .describer dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(describerDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config.yaml: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvModel, EnvSystemPrompt, EnvFlattenCommand, EnvLLMCommand} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Model != describe.DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, describe.DefaultModel)
	}
	if cfg.SystemPrompt != "architectural overview as markdown" {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.FlattenCommand != "files-to-prompt" || cfg.LLMCommand != "llm" {
		t.Errorf("commands = %q, %q", cfg.FlattenCommand, cfg.LLMCommand)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.Path != filepath.Join(".describer", "history.db") {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("Load() = %+v, want defaults %+v", *cfg, Default())
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	defaults := Default()

	tests := []struct {
		name        string
		yaml        string
		wantModel   string
		wantPrompt  string
		wantHistory bool
	}{
		{
			name: "full config overrides defaults",
			yaml: `model: gpt-4o
systemPrompt: "list the packages"
history:
  enabled: true
`,
			wantModel:   "gpt-4o",
			wantPrompt:  "list the packages",
			wantHistory: true,
		},
		{
			name:        "partial config merges with defaults",
			yaml:        "model: claude-3.5-sonnet\n",
			wantModel:   "claude-3.5-sonnet",
			wantPrompt:  defaults.SystemPrompt,
			wantHistory: false,
		},
		{
			name:        "empty file uses defaults",
			yaml:        "",
			wantModel:   defaults.Model,
			wantPrompt:  defaults.SystemPrompt,
			wantHistory: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.yaml)

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if cfg.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", cfg.Model, tt.wantModel)
			}
			if cfg.SystemPrompt != tt.wantPrompt {
				t.Errorf("SystemPrompt = %q, want %q", cfg.SystemPrompt, tt.wantPrompt)
			}
			if cfg.History.Enabled != tt.wantHistory {
				t.Errorf("History.Enabled = %v, want %v", cfg.History.Enabled, tt.wantHistory)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty model", `model: ""`, "model must not be empty"},
		{"empty llm command", `llmCommand: ""`, "llmCommand must not be empty"},
		{"empty history path", "history:\n  enabled: true\n  path: \"\"\n", "history.path must not be empty"},
		{"malformed yaml", "model: [unterminated", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.yaml)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Run("dotenv overrides config file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		writeConfig(t, dir, "model: from-yaml\n")
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DESCRIBER_MODEL=from-dotenv\nDESCRIBER_LLM_COMMAND=/opt/llm\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Model != "from-dotenv" {
			t.Errorf("Model = %q, want %q", cfg.Model, "from-dotenv")
		}
		if cfg.LLMCommand != "/opt/llm" {
			t.Errorf("LLMCommand = %q, want %q", cfg.LLMCommand, "/opt/llm")
		}
	})

	t.Run("process environment overrides dotenv", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DESCRIBER_SYSTEM_PROMPT=from dotenv\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		t.Setenv(EnvSystemPrompt, "from env")

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.SystemPrompt != "from env" {
			t.Errorf("SystemPrompt = %q, want %q", cfg.SystemPrompt, "from env")
		}
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.Model != describe.DefaultModel {
			t.Errorf("Model = %q, want default", cfg.Model)
		}
	})
}

func TestConfig_Marshal(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for _, want := range []string{"model: gemini-2.0-pro-exp-02-05", "llmCommand: llm", "enabled: false"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, data)
		}
	}
}
