package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/jywlabs/describer/internal/describe"
	"github.com/jywlabs/describer/internal/template"
	"github.com/jywlabs/describer/internal/tokens"
	"gopkg.in/yaml.v3"
)

// Environment variables that override .describer/config.yaml.
const (
	EnvModel          = "DESCRIBER_MODEL"
	EnvSystemPrompt   = "DESCRIBER_SYSTEM_PROMPT"
	EnvFlattenCommand = "DESCRIBER_FLATTEN_COMMAND"
	EnvLLMCommand     = "DESCRIBER_LLM_COMMAND"
)

// Config is the effective describer configuration.
type Config struct {
	Model          string        `yaml:"model"`
	SystemPrompt   string        `yaml:"systemPrompt"`
	FlattenCommand string        `yaml:"flattenCommand"`
	LLMCommand     string        `yaml:"llmCommand"`
	TokenEncoding  string        `yaml:"tokenEncoding"`
	History        HistoryConfig `yaml:"history"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// rawConfig is used for YAML unmarshaling to distinguish missing keys from explicit empty values.
type rawConfig struct {
	Model          *string `yaml:"model"`
	SystemPrompt   *string `yaml:"systemPrompt"`
	FlattenCommand *string `yaml:"flattenCommand"`
	LLMCommand     *string `yaml:"llmCommand"`
	TokenEncoding  *string `yaml:"tokenEncoding"`
	History        struct {
		Enabled *bool   `yaml:"enabled"`
		Path    *string `yaml:"path"`
	} `yaml:"history"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:          describe.DefaultModel,
		SystemPrompt:   describe.DefaultSystemPrompt,
		FlattenCommand: describe.DefaultFlattenCommand,
		LLMCommand:     describe.DefaultLLMCommand,
		TokenEncoding:  tokens.DefaultEncoding,
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(template.DescriberDir, template.HistoryFile),
		},
	}
}

// Validate checks that the Config fields are usable.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.FlattenCommand == "" {
		return fmt.Errorf("flattenCommand must not be empty")
	}
	if c.LLMCommand == "" {
		return fmt.Errorf("llmCommand must not be empty")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path must not be empty when history is enabled")
	}
	return nil
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, template.DescriberDir, template.ConfigFile)
}

// Load builds the effective configuration for dir: defaults, then
// .describer/config.yaml, then dir/.env, then the process environment.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	switch {
	case err == nil:
		var raw rawConfig
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", Path(dir), err)
		}
		cfg.merge(raw)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	env, err := readEnvFile(filepath.Join(dir, template.EnvFile))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge applies only the keys that were set in YAML.
func (c *Config) merge(raw rawConfig) {
	if raw.Model != nil {
		c.Model = *raw.Model
	}
	if raw.SystemPrompt != nil {
		c.SystemPrompt = *raw.SystemPrompt
	}
	if raw.FlattenCommand != nil {
		c.FlattenCommand = *raw.FlattenCommand
	}
	if raw.LLMCommand != nil {
		c.LLMCommand = *raw.LLMCommand
	}
	if raw.TokenEncoding != nil {
		c.TokenEncoding = *raw.TokenEncoding
	}
	if raw.History.Enabled != nil {
		c.History.Enabled = *raw.History.Enabled
	}
	if raw.History.Path != nil {
		c.History.Path = *raw.History.Path
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key   string
		field *string
	}{
		{EnvModel, &c.Model},
		{EnvSystemPrompt, &c.SystemPrompt},
		{EnvFlattenCommand, &c.FlattenCommand},
		{EnvLLMCommand, &c.LLMCommand},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.field = v
		}
	}
}

// readEnvFile parses a dotenv file; a missing file yields no values.
func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
