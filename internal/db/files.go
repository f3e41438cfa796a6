package db

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sbinet/npyio"
)

// ReadItems reads one item label per line. Blank lines and lines starting
// with '#' are skipped; surrounding whitespace is trimmed.
func ReadItems(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening items file: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}
	return labels, nil
}

// ReadVectors reads a 2D little-endian float32 or float64 .npy array and
// returns one row per vector.
func ReadVectors(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vectors file: %w", err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %w", err)
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: expected a 2D array, got shape %v", ErrInvalidWeightSet, shape)
	}
	rows, cols := shape[0], shape[1]

	var flat []float64
	switch r.Header.Descr.Type {
	case "<f8", "f8":
		if err := r.Read(&flat); err != nil {
			return nil, fmt.Errorf("reading npy data: %w", err)
		}
	case "<f4", "f4":
		var f32 []float32
		if err := r.Read(&f32); err != nil {
			return nil, fmt.Errorf("reading npy data: %w", err)
		}
		flat = make([]float64, len(f32))
		for i, x := range f32 {
			flat[i] = float64(x)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidWeightSet, r.Header.Descr.Type)
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidWeightSet, len(flat), shape)
	}

	vectors := make([][]float64, rows)
	for i := range vectors {
		vectors[i] = make([]float64, cols)
		for j := range vectors[i] {
			if r.Header.Descr.Fortran {
				vectors[i][j] = flat[j*rows+i]
			} else {
				vectors[i][j] = flat[i*cols+j]
			}
		}
	}
	return vectors, nil
}
