package db

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestBytesToEmbedding_KnownValues(t *testing.T) {
	// float64(1.0) in LE = 0x3FF0000000000000
	// float64(-0.5) in LE = 0xBFE0000000000000
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[0:8], math.Float64bits(1.0))
	binary.LittleEndian.PutUint64(data[8:16], math.Float64bits(-0.5))

	result := bytesToEmbedding(data)
	if len(result) != 2 {
		t.Fatalf("expected 2 floats, got %d", len(result))
	}
	if result[0] != 1.0 {
		t.Errorf("expected 1.0, got %f", result[0])
	}
	if result[1] != -0.5 {
		t.Errorf("expected -0.5, got %f", result[1])
	}
}

func TestBytesToEmbedding_Empty(t *testing.T) {
	result := bytesToEmbedding(nil)
	if len(result) != 0 {
		t.Errorf("expected empty, got %d elements", len(result))
	}
	result2 := bytesToEmbedding([]byte{})
	if len(result2) != 0 {
		t.Errorf("expected empty, got %d elements", len(result2))
	}
}

func TestBytesToEmbedding_ShortChunk(t *testing.T) {
	// 11 bytes = 1 full float + 3 bytes leftover
	data := make([]byte, 11)
	binary.LittleEndian.PutUint64(data[0:8], math.Float64bits(2.5))
	data[8], data[9], data[10] = 0xFF, 0xFF, 0xFF

	result := bytesToEmbedding(data)
	if len(result) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result))
	}
	if result[0] != 2.5 {
		t.Errorf("expected 2.5, got %f", result[0])
	}
	if result[1] != 0.0 {
		t.Errorf("trailing chunk should be 0.0, got %f", result[1])
	}
}

func TestBytesToEmbedding_300Dim(t *testing.T) {
	// a word2vec-sized vector: 300 x 8 = 2400 bytes
	data := make([]byte, 300*8)
	for i := 0; i < 300; i++ {
		binary.LittleEndian.PutUint64(data[i*8:(i+1)*8], math.Float64bits(float64(i)*0.01))
	}
	result := bytesToEmbedding(data)
	if len(result) != 300 {
		t.Fatalf("expected 300 dims, got %d", len(result))
	}
	// Spot check
	if result[0] != 0 {
		t.Errorf("result[0] should be 0.0, got %f", result[0])
	}
	if math.Abs(result[100]-1.0) > 1e-12 {
		t.Errorf("result[100] should be 1.0, got %f", result[100])
	}
}

func TestEmbeddingToBytes_RoundTrip(t *testing.T) {
	in := []float64{1, -0.5, 0.25, 0}
	out := bytesToEmbedding(embeddingToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("expected %d values, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("index %d: got %f, want %f", i, out[i], in[i])
		}
	}
}

func TestWeightSet_SaveLoad(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	labels := []string{"tomato", "basil", "olive oil"}
	vectors := [][]float64{{1, 0}, {0.5, 0.5}, {0, -1}}

	if err := d.SaveWeightSet(ctx, "word2vec", labels, vectors); err != nil {
		t.Fatalf("save: %v", err)
	}
	ws, err := d.LoadWeightSet(ctx, "word2vec")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ws.Dim != 2 || len(ws.Labels) != 3 {
		t.Fatalf("unexpected weight set: dim=%d labels=%v", ws.Dim, ws.Labels)
	}
	for i := range labels {
		if ws.Labels[i] != labels[i] {
			t.Errorf("label %d: got %q, want %q", i, ws.Labels[i], labels[i])
		}
		for j := range vectors[i] {
			if ws.Vectors[i][j] != vectors[i][j] {
				t.Errorf("vector %d[%d]: got %f, want %f", i, j, ws.Vectors[i][j], vectors[i][j])
			}
		}
	}
}

func TestWeightSet_KeepsFloat64Precision(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	vectors := [][]float64{{0.7, 0.1}, {0.1, 0.7}}
	if err := d.SaveWeightSet(ctx, "fasttext", []string{"a", "b"}, vectors); err != nil {
		t.Fatal(err)
	}
	ws, err := d.LoadWeightSet(ctx, "fasttext")
	if err != nil {
		t.Fatal(err)
	}
	if ws.Vectors[0][0] != 0.7 || ws.Vectors[1][1] != 0.7 {
		t.Errorf("stored vectors lost precision: %v", ws.Vectors)
	}
}

func TestWeightSet_Replace(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	if err := d.SaveWeightSet(ctx, "fasttext", []string{"a", "b"}, [][]float64{{1}, {2}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveWeightSet(ctx, "fasttext", []string{"c"}, [][]float64{{3}}); err != nil {
		t.Fatal(err)
	}
	labels, err := d.Labels(ctx, "fasttext")
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 1 || labels[0] != "c" {
		t.Errorf("expected [c] after replace, got %v", labels)
	}
}

func TestWeightSet_List(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"word2vec", "fasttext"} {
		if err := d.SaveWeightSet(ctx, name, []string{"x"}, [][]float64{{1, 2, 3}}); err != nil {
			t.Fatal(err)
		}
	}
	sets, err := d.WeightSets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 || sets[0].Name != "fasttext" || sets[1].Name != "word2vec" {
		t.Fatalf("expected [fasttext word2vec], got %+v", sets)
	}
	if sets[0].Dim != 3 || sets[0].Count != 1 {
		t.Errorf("unexpected info: %+v", sets[0])
	}

	if err := d.DeleteWeightSet(ctx, "fasttext"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LoadWeightSet(ctx, "fasttext"); !errors.Is(err, ErrWeightSetNotFound) {
		t.Errorf("expected ErrWeightSetNotFound after delete, got %v", err)
	}
}

func TestWeightSet_NotFound(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	if _, err := d.LoadWeightSet(ctx, "missing"); !errors.Is(err, ErrWeightSetNotFound) {
		t.Errorf("expected ErrWeightSetNotFound, got %v", err)
	}
	if _, err := d.Labels(ctx, "missing"); !errors.Is(err, ErrWeightSetNotFound) {
		t.Errorf("expected ErrWeightSetNotFound, got %v", err)
	}
	if err := d.DeleteWeightSet(ctx, "missing"); !errors.Is(err, ErrWeightSetNotFound) {
		t.Errorf("expected ErrWeightSetNotFound, got %v", err)
	}
}

func TestWeightSet_Invalid(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	err := d.SaveWeightSet(ctx, "bad", []string{"a", "b"}, [][]float64{{1}})
	if !errors.Is(err, ErrInvalidWeightSet) {
		t.Errorf("count mismatch: expected ErrInvalidWeightSet, got %v", err)
	}
	err = d.SaveWeightSet(ctx, "bad", []string{"a", "b"}, [][]float64{{1}, {1, 2}})
	if !errors.Is(err, ErrInvalidWeightSet) {
		t.Errorf("dim mismatch: expected ErrInvalidWeightSet, got %v", err)
	}
}
