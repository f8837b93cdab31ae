// Package config loads cfgview settings from a TOML file.
//
// Every field has a default (see [Default]); a file only needs the keys it
// changes. Command-line flags override file values.
//
//	[layout]
//	node_width = 300
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cfgview/pkg/artifacts"
	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
)

// appName names the config and cache directories.
const appName = "cfgview"

// Config is the complete cfgview configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds layout spacing and block truncation.
type LayoutConfig struct {
	RankSep         float64 `toml:"rank_sep"`
	NodeSep         float64 `toml:"node_sep"`
	NodeWidth       float64 `toml:"node_width"`
	NodeHeight      float64 `toml:"node_height"`
	Sweeps          int     `toml:"sweeps"`
	MaxInstructions int     `toml:"max_instructions"` // 0 uses the default
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	TTL             Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	Artifacts       string   `toml:"artifacts"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a string ("24h", "90s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			RankSep:         layout.DefaultRankSep,
			NodeSep:         layout.DefaultNodeSep,
			NodeWidth:       layout.DefaultNodeWidth,
			NodeHeight:      layout.DefaultNodeHeight,
			Sweeps:          layout.DefaultSweeps,
			MaxInstructions: cfg.DefaultMaxInstructions,
		},
		Cache: CacheConfig{
			Backend:         cache.BackendFile,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: cache.DefaultMongoCollection,
			TTL:             Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Artifacts:       artifacts.DefaultRoot,
			MaxBodyBytes:    16 << 20,
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads path on top of [Default] and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return c, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return c, c.Validate()
}

// Resolve loads path, or the file at [DefaultPath] when path is empty and
// that file exists, or returns [Default].
func Resolve(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// DefaultPath returns $XDG_CONFIG_HOME/cfgview/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/cfgview, falling back to ~/.cache.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	l := c.Layout
	switch {
	case l.NodeWidth <= 0 || l.NodeHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout node size must be positive")
	case l.RankSep < 0 || l.NodeSep < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout separations must not be negative")
	case l.Sweeps < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout sweeps must not be negative")
	case l.MaxInstructions < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout max_instructions must not be negative")
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr is empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	return nil
}

// Spacing converts the layout section to layout spacing.
func (l LayoutConfig) Spacing() layout.Spacing {
	return layout.Spacing{
		RankSep:    l.RankSep,
		NodeSep:    l.NodeSep,
		NodeWidth:  l.NodeWidth,
		NodeHeight: l.NodeHeight,
		Sweeps:     l.Sweeps,
	}
}

// Options converts the cache section to cache options. An empty Dir
// resolves to [DefaultCacheDir].
func (c CacheConfig) Options() (cache.Config, error) {
	dir := c.Dir
	if dir == "" && (c.Backend == cache.BackendFile || c.Backend == "") {
		d, err := DefaultCacheDir()
		if err != nil {
			return cache.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve cache dir")
		}
		dir = d
	}
	return cache.Config{
		Backend: c.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		},
	}, nil
}
