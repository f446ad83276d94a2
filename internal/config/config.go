// Package config loads ~/.storyweave/config.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir holds storyweave.sqlite and the TUI log; empty means the config dir.
	DataDir string        `yaml:"data_dir,omitempty" json:"dataDir,omitempty"`
	AI      AIConfig      `yaml:"ai" json:"ai"`
	Auth    AuthConfig    `yaml:"auth" json:"auth"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	TUI     TUIConfig     `yaml:"tui" json:"tui"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

type AIConfig struct {
	APIKey    string `yaml:"api_key,omitempty" json:"apiKey,omitempty"`
	Model     string `yaml:"model,omitempty" json:"model,omitempty"`
	MockDelay string `yaml:"mock_delay,omitempty" json:"mockDelay,omitempty"`
}

type AuthConfig struct {
	RequireConfirmation bool   `yaml:"require_confirmation" json:"requireConfirmation"`
	SessionTTL          string `yaml:"session_ttl,omitempty" json:"sessionTtl,omitempty"`
}

type CatalogConfig struct {
	SeedSize int   `yaml:"seed_size,omitempty" json:"seedSize,omitempty"`
	Seed     int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

type TUIConfig struct {
	// MarkdownStyle is a glamour style name ("dark", "light", "notty", "auto").
	MarkdownStyle string `yaml:"markdown_style,omitempty" json:"markdownStyle,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
}

func Default() *Config {
	return &Config{
		AI: AIConfig{
			Model:     "gemini-2.5-flash",
			MockDelay: "1500ms",
		},
		Auth: AuthConfig{
			SessionTTL: "168h",
		},
		Catalog: CatalogConfig{
			SeedSize: 50,
		},
		TUI: TUIConfig{
			MarkdownStyle: "auto",
		},
	}
}

// Dir is ~/.storyweave, or $STORYWEAVE_CONFIG_DIR when set.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("STORYWEAVE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".storyweave"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (missing file means defaults) and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the config from Path().
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (c *Config) applyEnvOverrides() {
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			c.AI.APIKey = v
			break
		}
	}
	if v := strings.TrimSpace(os.Getenv("STORYWEAVE_AI_MODEL")); v != "" {
		c.AI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("STORYWEAVE_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if _, err := parseDuration(c.AI.MockDelay); err != nil {
		return fmt.Errorf("ai.mock_delay: %w", err)
	}
	if _, err := parseDuration(c.Auth.SessionTTL); err != nil {
		return fmt.Errorf("auth.session_ttl: %w", err)
	}
	if c.Catalog.SeedSize < 0 {
		return errors.New("catalog.seed_size must not be negative")
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(strings.TrimSpace(s))
}

// MockDelay is the stub assistant's latency.
func (c *Config) MockDelay() time.Duration {
	d, _ := parseDuration(c.AI.MockDelay)
	return d
}

func (c *Config) SessionTTL() time.Duration {
	d, _ := parseDuration(c.Auth.SessionTTL)
	return d
}

// Save writes the config atomically, keeping the previous file as config.yaml.bak.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.AI.APIKey != "" {
		out.AI.APIKey = "***"
	}
	return &out
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
