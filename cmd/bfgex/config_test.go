package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, configFileName), "")

	path, ok, err := findConfig(deep)
	if err != nil || !ok {
		t.Fatalf("findConfig = %q, %v, %v", path, ok, err)
	}
	if path != filepath.Join(root, configFileName) {
		t.Errorf("path = %q", path)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := loadConfig("", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.defined("parse", "extended") {
		t.Errorf("unexpected config %+v", cfg)
	}
	if class, ok := cfg.Classes.Lookup('w'); !ok || class != ast.ClassWord {
		t.Errorf("default classes missing: %v %v", class, ok)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	writeFile(t, path, `
[parse]
extended = true

[classes]
s = "SPACE"
d = "HEX_DIGIT"

[check]
jobs = 3
max_diagnostics = 10

[output]
color = "off"
`)
	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Config.Parse.Extended || cfg.Config.Check.Jobs != 3 || cfg.Config.Check.MaxDiagnostics != 10 {
		t.Errorf("config = %+v", cfg.Config)
	}
	if !cfg.defined("output", "color") {
		t.Error("output.color must be defined")
	}
	// переопределение \d поверх встроенного класса
	if class, _ := cfg.Classes.Lookup('d'); class != "HEX_DIGIT" {
		t.Errorf("\\d = %q", class)
	}
	if class, _ := cfg.Classes.Lookup('s'); class != "SPACE" {
		t.Errorf("\\s = %q", class)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[parse\n", "failed to parse TOML"},
		{"unknown_key", "[parse]\nlazy = true\n", "unknown keys: parse.lazy"},
		{"negative_jobs", "[check]\njobs = -1\n", "[check].jobs"},
		{"bad_color", "[output]\ncolor = \"pink\"\n", "[output].color"},
		{"long_class_key", "[classes]\nsp = \"SPACE\"\n", "single letter"},
		{"bad_class_name", "[classes]\ns = \"space\"\n", "class name"},
		{"bad_class_letter", "[classes]\n\"-\" = \"DASH\"\n", "escape letter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), configFileName)
			writeFile(t, path, tt.content)
			_, err := loadConfig(path, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReadModes(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want colorMode
	}{
		{"", colorAuto},
		{"ON", colorOn},
		{"never", colorOff},
	} {
		got, err := readColorMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("readColorMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := readColorMode("pink"); err == nil {
		t.Error("invalid color mode accepted")
	}

	if mode, err := readUIMode(" Off "); err != nil || mode != uiModeOff {
		t.Errorf("readUIMode = %q, %v", mode, err)
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("invalid ui mode accepted")
	}
	var buf strings.Builder
	if shouldUseTUI(uiModeAuto, &buf, 5) {
		t.Error("auto mode must stay off for non-terminal output")
	}
	if !shouldUseTUI(uiModeOn, &buf, 1) {
		t.Error("--ui on must force the view")
	}
	if colorAuto.enabled(&buf) || !colorOn.enabled(&buf) {
		t.Error("colour detection ignores the writer")
	}
}
