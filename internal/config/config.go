// Package config loads the bootstrap settings read before a store is
// opened: which backend to use, where it lives, which paths a matcher
// should default to, and how verbosely to log. These are deliberately
// narrow compared to a full application config, since everything past
// "open the store" is a flag or an argument on the relevant CLI command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the settings read at startup, before any store or
// disambiguation context is constructed.
type Config struct {
	Store struct {
		// Backend selects the repotree.Store implementation: "memory" or
		// "bolt".
		Backend string `mapstructure:"backend"`
		// Path is the bbolt database file; ignored for the memory backend.
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`

	Matcher struct {
		// Include lists default directory prefixes for a matcher. It is
		// loaded into Config only: the treestore commands do not read it
		// (diff restricts itself only through --prefix, and merge always
		// considers every path).
		Include []string `mapstructure:"include"`
	} `mapstructure:"matcher"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "treestore.bolt")
	v.SetDefault("matcher.include", []string{})
	v.SetDefault("log.level", "info")
}

// Load reads configuration from path (a TOML file) if it exists, layered
// over built-in defaults and TREESTORE_-prefixed environment variables.
// An empty path looks for "treestore.toml" in the current directory and
// is not an error if absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("treestore")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	defaults(v)

	if path == "" {
		v.SetConfigName("treestore")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// LogLevel parses cfg.Log.Level into an slog.Level, defaulting to Info
// on an unrecognized value.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WriteDefault writes a commented starter treestore.toml to path,
// creating the file's directory if needed.
func WriteDefault(path string) error {
	const body = `# treestore configuration
[store]
backend = "memory" # or "bolt"
path = "treestore.bolt"

[matcher]
include = []

[log]
level = "info"
`
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(path, []byte(body), 0o644)
}

// Watch reloads cfg whenever the file at path changes on disk, invoking
// onChange with the freshly loaded Config. The returned function stops
// the watch.
func Watch(path string, logger *slog.Logger, onChange func(*Config)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: new watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					logger.Warn("config reload failed", "path", path, "err", err)
					continue
				}
				onChange(cfg)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", werr)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

// decodeTOML is used by tests to sanity-check that WriteDefault emits
// valid TOML without pulling in the viper machinery.
func decodeTOML(path string) (map[string]any, error) {
	var m map[string]any
	_, err := toml.DecodeFile(path, &m)
	return m, err
}
