package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bikeheat/internal/geom"
	"bikeheat/internal/scene"
	"bikeheat/internal/state"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Data.Source != geom.DefaultSource {
		t.Errorf("source = %q", cfg.Data.Source)
	}
	if cfg.View.MapStyle != scene.MapStyle {
		t.Errorf("map style = %q", cfg.View.MapStyle)
	}
	if cfg.Params() != state.DefaultParams() {
		t.Errorf("params = %+v", cfg.Params())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	content := `
[data]
source = "https://example.org/thefts.csv"
fetchTimeout = "45s"

[view]
mapStyle = "https://example.org/style.json"

[defaults]
radius = 80
year = 2019
minValue = 3

[log]
file = "/tmp/bikeheat.log"
`
	p := filepath.Join(t.TempDir(), "bikeheat.toml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Source != "https://example.org/thefts.csv" || cfg.Data.FetchTimeout != 45*time.Second {
		t.Errorf("data = %+v", cfg.Data)
	}
	if cfg.View.MapStyle != "https://example.org/style.json" {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Params() != (state.Params{Radius: 80, Year: 2019, MinValue: 3}) {
		t.Errorf("params = %+v", cfg.Params())
	}
	if cfg.Log.File != "/tmp/bikeheat.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse("[defaults]\nyear = 2010\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Defaults.Year != 2010 || cfg.Defaults.Radius != 50 || cfg.Data.Source != geom.DefaultSource {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"radius off step", "[defaults]\nradius = 55\n", "defaults.radius"},
		{"year out of range", "[defaults]\nyear = 1999\n", "defaults.year"},
		{"min value too high", "[defaults]\nminValue = 6\n", "defaults.minValue"},
		{"empty source", "[data]\nsource = \"\"\n", "data.source"},
		{"negative timeout", "[data]\nfetchTimeout = \"-1s\"\n", "fetchTimeout"},
		{"unknown key", "[view]\nzoom = 3\n", "view.zoom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse("[defaults\nradius = 50"); err == nil {
		t.Error("expected a TOML syntax error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
