package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Layout.Oracle != OracleGraphviz {
		t.Errorf("default oracle = %q", cfg.Layout.Oracle)
	}
	if cfg.Layout.BoxWidth != 200 || cfg.Layout.BoxHeight != 100 {
		t.Errorf("default box = %vx%v", cfg.Layout.BoxWidth, cfg.Layout.BoxHeight)
	}
	if cfg.Ports.Spacing != 20 {
		t.Errorf("default spacing = %v", cfg.Ports.Spacing)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("default ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := Dir(); dir != "/tmp/test-xdg/flowboard" {
		t.Errorf("Dir() = %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if dir := Dir(); dir != filepath.Join(home, ".config", "flowboard") {
		t.Errorf("Dir() = %q", dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Layout.Oracle = OracleLayered
	cfg.Ports.Spacing = 24
	cfg.Cache.TTL = Duration{time.Hour}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Layout.Oracle != OracleLayered || loaded.Ports.Spacing != 24 {
		t.Errorf("Load() = %+v", loaded)
	}
	if loaded.Cache.TTL.Duration != time.Hour {
		t.Errorf("ttl = %v, want 1h", loaded.Cache.TTL)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[layout]\noracle = \"layered\"\n\n[cache]\nttl = \"30m\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Oracle != OracleLayered || cfg.Layout.RankSep != 100 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Cache.TTL.Duration != 30*time.Minute || cfg.Cache.Backend != CacheFile {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if cfg.Layout.Oracle != OracleGraphviz {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "[layout\n"},
		{"bad oracle", "[layout]\noracle = \"spring\"\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
				t.Errorf("Load() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Layout.BoxWidth = 0 }},
		{"negative rank sep", func(c *Config) { c.Layout.RankSep = -1 }},
		{"zero spacing", func(c *Config) { c.Ports.Spacing = 0 }},
		{"negative radius", func(c *Config) { c.Ports.HitRadius = -2 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
