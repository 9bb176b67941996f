// Package config loads wstok.toml / .wstok.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// FileNames lists the recognised config names in lookup order.
var FileNames = []string{"wstok.toml", ".wstok.yaml", ".wstok.yml"}

// Config is the decoded content of a config file.
type Config struct {
	Tokenize TokenizeConfig `toml:"tokenize" yaml:"tokenize"`
	Serve    ServeConfig    `toml:"serve" yaml:"serve"`

	// Path is the file the config was read from, empty for defaults.
	Path    string              `toml:"-" yaml:"-"`
	defined map[string]struct{} // "section.key"
}

// TokenizeConfig holds defaults for `wstok tokenize`.
type TokenizeConfig struct {
	Format           string   `toml:"format" yaml:"format" validate:"omitempty,oneof=pretty text json ndjson jsonl yaml yml msgpack words"`
	Offsets          string   `toml:"offsets" yaml:"offsets" validate:"omitempty,oneof=byte rune"`
	Normalize        string   `toml:"normalize" yaml:"normalize" validate:"omitempty,oneof=none nfc nfd nfkc nfkd"`
	AllowInvalidUTF8 bool     `toml:"allow_invalid_utf8" yaml:"allow_invalid_utf8"`
	Trivia           bool     `toml:"trivia" yaml:"trivia"`
	Jobs             int      `toml:"jobs" yaml:"jobs" validate:"gte=0"`
	Extensions       []string `toml:"extensions" yaml:"extensions" validate:"dive,startswith=."`
	Cache            bool     `toml:"cache" yaml:"cache"`
	MaxDiagnostics   int      `toml:"max_diagnostics" yaml:"max_diagnostics" validate:"gte=0"`
}

// ServeConfig holds defaults for `wstok serve`.
type ServeConfig struct {
	Addr         string  `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	RateLimit    float64 `toml:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	Burst        int     `toml:"burst" yaml:"burst" validate:"gte=0"`
	MaxBodyBytes int64   `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`
	RedisAddr    string  `toml:"redis_addr" yaml:"redis_addr" validate:"omitempty,hostname_port"`
	CacheSize    int     `toml:"cache_size" yaml:"cache_size" validate:"gte=0"`
	CacheTTL     string  `toml:"cache_ttl" yaml:"cache_ttl"`
}

// TTL parses CacheTTL; empty means no expiry.
func (s ServeConfig) TTL() (time.Duration, error) {
	if strings.TrimSpace(s.CacheTTL) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("[serve].cache_ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("[serve].cache_ttl must not be negative")
	}
	return d, nil
}

// Defined reports whether the file set section.key explicitly.
func (c *Config) Defined(section, key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.defined[section+"."+key]
	return ok
}

// Find walks up from startDir looking for a config file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest config file. Without one it returns
// an empty Config and false.
func Discover(startDir string) (*Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return &Config{}, false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load decodes the file at path by its extension and validates it.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%s: unsupported config format (want .toml or .yaml)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	cfg.defined = make(map[string]struct{})
	for _, key := range meta.Keys() {
		if len(key) == 2 && meta.IsDefined(key[0], key[1]) {
			cfg.defined[key[0]+"."+key[1]] = struct{}{}
		}
	}
	return &cfg, nil
}

func decodeYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.defined = make(map[string]struct{})
	for section, keys := range raw {
		for key := range keys {
			cfg.defined[section+"."+key] = struct{}{}
		}
	}
	return &cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their toml names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid value %v for %s (%s)", fe.Value(), fieldPath(fe.Namespace()), fe.Tag())
		}
		return err
	}
	if _, err := c.Serve.TTL(); err != nil {
		return err
	}
	return nil
}

// fieldPath turns "Config.tokenize.jobs" into "[tokenize].jobs".
func fieldPath(ns string) string {
	parts := strings.SplitN(ns, ".", 3)
	if len(parts) < 3 {
		return ns
	}
	return "[" + parts[1] + "]." + parts[2]
}
