package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 720 {
		t.Errorf("screen = %dx%d, want 1280x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Emitter.Rate != 80 {
		t.Errorf("emitter rate = %v, want 80", cfg.Emitter.Rate)
	}
	if cfg.Fluid.Count != 800 {
		t.Errorf("fluid count = %d, want 800", cfg.Fluid.Count)
	}
	if cfg.Telemetry.StatsWindow != 5.0 {
		t.Errorf("stats window = %v, want 5.0", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("fluid:\n  count: 1500\n  viscosity: 0.3\nscreen:\n  target_fps: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Fluid.Count != 1500 {
		t.Errorf("fluid count = %d, want 1500 (overridden)", cfg.Fluid.Count)
	}
	if cfg.Fluid.Viscosity != 0.3 {
		t.Errorf("viscosity = %v, want 0.3 (overridden)", cfg.Fluid.Viscosity)
	}
	// Fields absent from the override keep their embedded defaults.
	if cfg.Fluid.RestDensity != 3.0 {
		t.Errorf("rest density = %v, want default 3.0", cfg.Fluid.RestDensity)
	}
	if cfg.Emitter.Rate != 80 {
		t.Errorf("emitter rate = %v, want default 80", cfg.Emitter.Rate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDerivedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fps.yaml")
	if err := os.WriteFile(path, []byte("screen:\n  target_fps: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Derived.DT32; got != 1.0/30.0 {
		t.Errorf("DT32 = %v, want 1/30", got)
	}

	// Bad FPS falls back to 60.
	path2 := filepath.Join(t.TempDir(), "badfps.yaml")
	if err := os.WriteFile(path2, []byte("screen:\n  target_fps: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg2, err := Load(path2)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg2.Derived.DT32; got != 1.0/60.0 {
		t.Errorf("DT32 with invalid fps = %v, want 1/60", got)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fluid.Count = 999

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if back.Fluid.Count != 999 {
		t.Errorf("round-tripped fluid count = %d, want 999", back.Fluid.Count)
	}
}
