package dump

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how a dump is collected and written.
type Config struct {
	// Label names the dump in log records.
	Label string `yaml:"label"`

	// Indent is the number of spaces per JSON indent level. Zero writes
	// compact JSON.
	Indent int `yaml:"indent"`

	// Text enables the .txt pretty-print next to the JSON file.
	Text bool `yaml:"text"`

	// TextIndent is the number of spaces per level in the .txt file.
	TextIndent int `yaml:"text_indent"`

	// Layout lists the features to read per endpoint.
	Layout Layout `yaml:"layout,omitempty"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Label:      "composition",
		Indent:     2,
		Text:       true,
		TextIndent: 2,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that values are in range.
func (c Config) Validate() error {
	if c.Indent < 0 || c.Indent > 8 {
		return fmt.Errorf("%w: indent %d not in 0..8", ErrInvalidConfig, c.Indent)
	}
	if c.TextIndent < 0 || c.TextIndent > 8 {
		return fmt.Errorf("%w: text_indent %d not in 0..8", ErrInvalidConfig, c.TextIndent)
	}
	return nil
}
