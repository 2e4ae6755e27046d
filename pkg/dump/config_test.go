package dump

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
label: nightly
indent: 4
layout:
  0: [1]
  1: [2, 3]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Label != "nightly" {
		t.Errorf("Label = %q, want nightly", cfg.Label)
	}
	if cfg.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cfg.Indent)
	}
	if !cfg.Text {
		t.Error("Text should keep its default of true")
	}
	if cfg.TextIndent != 2 {
		t.Errorf("TextIndent = %d, want default 2", cfg.TextIndent)
	}
	if got := cfg.Layout.Count(); got != 3 {
		t.Errorf("Layout.Count() = %d, want 3", got)
	}
	if feats := cfg.Layout[1]; len(feats) != 2 || feats[0] != 2 || feats[1] != 3 {
		t.Errorf("Layout[1] = %v, want [2 3]", feats)
	}
}

func TestLoadConfigDisableText(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "text: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Text {
		t.Error("Text = true, want false")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"indent too large", "indent: 12\n", ErrInvalidConfig},
		{"negative text indent", "text_indent: -1\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "indent: [\n")); err == nil {
		t.Error("LoadConfig should fail on malformed YAML")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig should fail on a missing file")
	}
}
