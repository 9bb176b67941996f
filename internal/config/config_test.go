package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wstok.toml", `
[tokenize]
format = "json"
offsets = "rune"
extensions = [".txt", ".md"]
allow_invalid_utf8 = false

[serve]
addr = "127.0.0.1:8080"
rate_limit = 50.5
cache_ttl = "90s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tokenize.Format != "json" || cfg.Tokenize.Offsets != "rune" || len(cfg.Tokenize.Extensions) != 2 {
		t.Errorf("unexpected tokenize section %+v", cfg.Tokenize)
	}
	if cfg.Serve.Addr != "127.0.0.1:8080" || cfg.Serve.RateLimit != 50.5 {
		t.Errorf("unexpected serve section %+v", cfg.Serve)
	}
	if ttl, err := cfg.Serve.TTL(); err != nil || ttl != 90*time.Second {
		t.Errorf("TTL() = %v, %v", ttl, err)
	}
	if !cfg.Defined("tokenize", "allow_invalid_utf8") {
		t.Error("explicit false must count as defined")
	}
	if cfg.Defined("tokenize", "jobs") || cfg.Defined("serve", "burst") {
		t.Error("absent keys reported as defined")
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".wstok.yaml", `
tokenize:
  format: words
  jobs: 4
serve:
  redis_addr: localhost:6379
  cache_size: 128
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tokenize.Format != "words" || cfg.Tokenize.Jobs != 4 {
		t.Errorf("unexpected tokenize section %+v", cfg.Tokenize)
	}
	if cfg.Serve.RedisAddr != "localhost:6379" || cfg.Serve.CacheSize != 128 {
		t.Errorf("unexpected serve section %+v", cfg.Serve)
	}
	if !cfg.Defined("tokenize", "jobs") || cfg.Defined("tokenize", "format2") {
		t.Error("definedness wrong")
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name, file, content, want string
	}{
		{"bad format", "wstok.toml", "[tokenize]\nformat = \"xml\"\n", "[tokenize].format"},
		{"negative jobs", "wstok.toml", "[tokenize]\njobs = -1\n", "[tokenize].jobs"},
		{"bad extension", "wstok.toml", "[tokenize]\nextensions = [\"txt\"]\n", "[tokenize].extensions[0]"},
		{"bad ttl", "wstok.toml", "[serve]\ncache_ttl = \"soon\"\n", "cache_ttl"},
		{"unknown toml key", "wstok.toml", "[tokenize]\ncolour = true\n", "unknown key"},
		{"unknown yaml key", ".wstok.yaml", "tokenize:\n  colour: true\n", "failed to parse YAML"},
		{"broken toml", "wstok.toml", "[tokenize\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tc.file, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, "wstok.toml", "[tokenize]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}

	// ближайший файл выигрывает
	closer := writeFile(t, nested, ".wstok.yaml", "tokenize:\n  format: json\n")
	cfg, ok, err := Discover(nested)
	if err != nil || !ok || cfg.Path != closer {
		t.Fatalf("Discover = %+v %v %v", cfg, ok, err)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// temp dirs may sit under a directory with a config; only check the empty case
	if !ok && (cfg == nil || cfg.Path != "" || cfg.Defined("tokenize", "format")) {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}
