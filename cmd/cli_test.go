package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// writeVectors writes rows as a little-endian float64 .npy file.
func writeVectors(t *testing.T, path string, rows [][]float64) {
	t.Helper()
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", len(rows), len(rows[0]))
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, row := range rows {
		for _, v := range row {
			binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// resetFlags puts every flag back to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupCLI(t *testing.T) (itemsPath, vectorsPath string) {
	t.Helper()
	withConfig(t)
	prevLog := log
	t.Cleanup(func() { log = prevLog })

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOODGRAPH_DB", filepath.Join(dir, "kg.db"))
	t.Setenv("APP_LOG_MODE", "production")

	itemsPath = filepath.Join(dir, "items.txt")
	if err := os.WriteFile(itemsPath, []byte("tomato\nbasil\ngarlic\nsugar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	vectorsPath = filepath.Join(dir, "vectors.npy")
	writeVectors(t, vectorsPath, [][]float64{{0.7, 0.1}, {0.1, 0.7}, {0.7, 0.2}, {-0.3, -0.9}})
	return itemsPath, vectorsPath
}

func TestCLI_ImportThenRender(t *testing.T) {
	items, vectors := setupCLI(t)

	out, err := runCLI(t, "import", "--items", items, "--vectors", vectors, "--weights", "word2vec")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 4 items into weight set word2vec") {
		t.Errorf("unexpected import output: %q", out)
	}

	out, err = runCLI(t, "items", "--weights", "word2vec")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if out != "tomato\nbasil\ngarlic\nsugar\n" {
		t.Errorf("unexpected items output: %q", out)
	}

	stored, err := runCLI(t, "render", "--json", "--weights", "word2vec", "--seed", "7", "--select", "tomato")
	if err != nil {
		t.Fatalf("render from store: %v", err)
	}
	var fig struct {
		Title  string           `json:"title"`
		Layers []map[string]any `json:"layers"`
	}
	if err := json.Unmarshal([]byte(stored), &fig); err != nil {
		t.Fatalf("render output is not JSON: %v", err)
	}
	if len(fig.Layers) != 3 || fig.Layers[0]["kind"] != "edges" {
		t.Fatalf("expected edges, nodes and edge_labels layers, got %d", len(fig.Layers))
	}
	if !strings.Contains(stored, `"garlic, tomato: `) {
		t.Errorf("expected the garlic-tomato edge, got %s", stored)
	}

	fromFiles, err := runCLI(t, "render", "--json", "--items", items, "--vectors", vectors, "--seed", "7", "--select", "tomato")
	if err != nil {
		t.Fatalf("render from files: %v", err)
	}
	if fromFiles != stored {
		t.Errorf("store and file paths disagree:\nstore: %s\nfiles: %s", stored, fromFiles)
	}
}

func TestCLI_NegativeTopN(t *testing.T) {
	items, vectors := setupCLI(t)
	for _, args := range [][]string{
		{"analyze", "--items", items, "--vectors", vectors, "--top-n", "-1"},
		{"similar", "tomato", "--items", items, "--vectors", vectors, "--top-n", "-1"},
	} {
		if _, err := runCLI(t, args...); err == nil || !strings.Contains(err.Error(), "--top-n") {
			t.Errorf("%s: expected a --top-n error, got %v", args[0], err)
		}
	}
}

func TestCLI_Similar(t *testing.T) {
	items, vectors := setupCLI(t)
	out, err := runCLI(t, "similar", "tomato", "--items", items, "--vectors", vectors, "--json", "--top-n", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"label": "garlic"`) {
		t.Errorf("expected garlic as the nearest item, got %s", out)
	}
}
