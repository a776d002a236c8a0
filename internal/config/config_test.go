package config

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", false, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), cfg)
	}
}

func TestLoadMissingOptionalFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false, nil)
	if err != nil {
		t.Fatalf("Optional missing file must not error, got %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true, nil); err == nil {
		t.Fatal("Explicitly named missing file must error")
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("PRUVI_LISTEN", ":7070")
	t.Setenv("PRUVI_REPOS", "/var/packs")

	cfg, err := Load("", false, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("Expected listen from env, got %q", cfg.Listen)
	}
	if cfg.Repos != "/var/packs" {
		t.Errorf("Expected repos from env, got %q", cfg.Repos)
	}
	if cfg.DB != Default().DB {
		t.Errorf("Expected default db, got %q", cfg.DB)
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "listen: \":9000\"\ndb: from-file.db\ncount: 7\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	// Env overrides the file, flags override env.
	t.Setenv("PRUVI_DB", "from-env.db")

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.Int("count", Default().Count, "")
	flags.String("db", Default().DB, "")
	if err := flags.Parse([]string{"--count=3"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(path, true, flags)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Expected listen from file, got %q", cfg.Listen)
	}
	if cfg.DB != "from-env.db" {
		t.Errorf("Expected env to beat file for db, got %q", cfg.DB)
	}
	if cfg.Count != 3 {
		t.Errorf("Expected flag to beat file for count, got %d", cfg.Count)
	}
	if cfg.Repos != Default().Repos {
		t.Errorf("Expected default repos, got %q", cfg.Repos)
	}
}
