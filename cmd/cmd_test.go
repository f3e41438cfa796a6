package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"foodgraph/kg/internal/config"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "tomato", want: []string{"tomato"}},
		{name: "trims and skips blanks", in: " tomato, ,basil ,", want: []string{"tomato", "basil"}},
		{name: "keeps underscores", in: "olive_oil,sea_salt", want: []string{"olive_oil", "sea_salt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSelection(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("item %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncTitle(t *testing.T) {
	if got := truncTitle("basil", 10); got != "basil" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncTitle("mozzarella", 4); got != "mozz..." {
		t.Errorf("expected mozz..., got %q", got)
	}
	// "crème" has a two-byte rune at bytes 2-3
	if got := truncTitle("crème", 3); got != "cr..." {
		t.Errorf("expected cut before the split rune, got %q", got)
	}
}

func withConfig(t *testing.T) {
	t.Helper()
	prevCfg, prevDB := cfg, dbPath
	cfg = config.Default()
	dbPath = ""
	t.Cleanup(func() { cfg, dbPath = prevCfg, prevDB })
}

func TestDiscoverDB_WalkUp(t *testing.T) {
	withConfig(t)
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	want := filepath.Join(root, dbFileName)
	if err := os.WriteFile(want, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got, err := DiscoverDB()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDiscoverDB_ConfigPathWins(t *testing.T) {
	withConfig(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.db")
	flagPath := filepath.Join(dir, "flag.db")
	for _, p := range []string{envPath, flagPath} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg.Store.DBPath = envPath
	dbPath = flagPath

	got, err := DiscoverDB()
	if err != nil {
		t.Fatal(err)
	}
	if got != envPath {
		t.Errorf("expected env path to win, got %s", got)
	}
}

func TestDiscoverDB_MissingFlagPath(t *testing.T) {
	withConfig(t)
	dbPath = filepath.Join(t.TempDir(), "missing.db")
	if _, err := DiscoverDB(); err == nil {
		t.Error("expected error for missing --db path")
	}
}

func TestWritableDBPath_Default(t *testing.T) {
	withConfig(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	if got := writableDBPath(); got != dbFileName {
		t.Errorf("expected %s, got %s", dbFileName, got)
	}
}
