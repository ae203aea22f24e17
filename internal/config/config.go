// Package config loads flowboard settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Oracle names accepted in [layout].
const (
	OracleGraphviz = "graphviz"
	OracleLayered  = "layered"
)

// Cache backends accepted in [cache].
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds flowboard configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Ports  PortsConfig  `toml:"ports"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig selects the oracle and the geometry it works with.
type LayoutConfig struct {
	Oracle    string  `toml:"oracle"` // "graphviz" or "layered"
	BoxWidth  float64 `toml:"box_width"`
	BoxHeight float64 `toml:"box_height"`
	RankSep   float64 `toml:"rank_sep"`
	NodeSep   float64 `toml:"node_sep"`
}

// PortsConfig controls port placement and picking.
type PortsConfig struct {
	Spacing   float64 `toml:"spacing"`
	HitRadius float64 `toml:"hit_radius"`
}

// CacheConfig controls the layout cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis" or "none"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig controls `flowboard serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("168h") in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Oracle:    OracleGraphviz,
			BoxWidth:  port.DefaultWidth,
			BoxHeight: port.DefaultHeight,
			RankSep:   100,
			NodeSep:   40,
		},
		Ports:  PortsConfig{Spacing: port.DefaultSpacing, HitRadius: 8},
		Cache:  CacheConfig{Backend: CacheFile, TTL: Duration{7 * 24 * time.Hour}},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the flowboard config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowboard")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path on top of the defaults. An empty path means
// [Path]. A missing file is not an error; a malformed or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Layout.Oracle {
	case OracleGraphviz, OracleLayered:
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "unknown layout oracle %q", c.Layout.Oracle)
	}
	if c.Layout.BoxWidth <= 0 || c.Layout.BoxHeight <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "box size must be positive")
	}
	if c.Layout.RankSep < 0 || c.Layout.NodeSep < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "separation must not be negative")
	}
	if c.Ports.Spacing <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "port spacing must be positive")
	}
	if c.Ports.HitRadius < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "hit radius must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "redis cache needs redis_addr")
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// BoxSize returns the configured layout box.
func (c *Config) BoxSize() port.Size {
	return port.Size{W: c.Layout.BoxWidth, H: c.Layout.BoxHeight}
}
