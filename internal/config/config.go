// Package config loads gitscribe's configuration from defaults, the TOML
// config file, and GITSCRIBE_ environment overrides, in that precedence
// order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrMissingAPIKey marks a selected remote provider with no credential
// configured. Fatal before any generation is attempted.
var ErrMissingAPIKey = errors.New("missing api key")

// ProviderConfig is the per-backend connection block.
type ProviderConfig struct {
	APIKey           string            `koanf:"api_key"`
	Model            string            `koanf:"model"`
	BaseURL          string            `koanf:"base_url"`
	TokenLimit       int               `koanf:"token_limit"`
	AdditionalParams map[string]string `koanf:"additional_params"`
}

// Config is the full application configuration.
type Config struct {
	General struct {
		DefaultProvider   string `koanf:"default_provider"`
		UseGitmoji        bool   `koanf:"use_gitmoji"`
		Instructions      string `koanf:"instructions"`
		InstructionPreset string `koanf:"instruction_preset"`
	} `koanf:"general"`

	Providers map[string]ProviderConfig `koanf:"providers"`
}

// DefaultPath returns the config file location used when --config is not
// given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitscribe.toml"
	}
	return filepath.Join(home, ".gitscribe.toml")
}

// Load reads configuration from configPath, falling back to the default
// location when configPath is empty. A missing file is not an error; the
// defaults and environment still apply.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"general.default_provider":   "openai",
		"general.use_gitmoji":        false,
		"general.instruction_preset": "default",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", configPath, err)
		}
	} else {
		path := DefaultPath()
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config %s: %w", path, err)
			}
		}
	}

	// GITSCRIBE_GENERAL__DEFAULT_PROVIDER etc. override the file. Double
	// underscore separates nesting levels so key names keep their own
	// underscores.
	if err := k.Load(env.Provider("GITSCRIBE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "GITSCRIBE_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &config, nil
}

// ProviderOptions returns the configured block for name, or the zero block
// when the file has none.
func (c *Config) ProviderOptions(name string) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[name]
}

// Validate checks that the selected provider is usable. Local backends need
// no credential.
func Validate(config *Config, providerName string) error {
	if providerName == "" {
		return fmt.Errorf("no provider selected: set general.default_provider or pass --provider")
	}
	if providerName == "ollama" || providerName == "test" {
		return nil
	}
	pc := config.ProviderOptions(providerName)
	if pc.APIKey == "" {
		return fmt.Errorf("%w for provider %q: set providers.%s.api_key in %s or GITSCRIBE_PROVIDERS__%s__API_KEY",
			ErrMissingAPIKey, providerName, providerName, DefaultPath(), strings.ToUpper(providerName))
	}
	return nil
}

// Init writes a sample configuration file, refusing to clobber an existing
// one.
func Init(configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sample := `# gitscribe configuration

[general]
default_provider = "openai"
use_gitmoji = false
instruction_preset = "default"
# instructions = "Mention the ticket number when the branch name carries one."

[providers.openai]
api_key = "your-openai-api-key"
model = "gpt-4o"
# token_limit = 128000

[providers.anthropic]
api_key = "your-anthropic-api-key"
model = "claude-3-5-sonnet-latest"

[providers.ollama]
model = "llama3"
# base_url = "http://localhost:11434"
`
	return os.WriteFile(configPath, []byte(sample), 0o644)
}
