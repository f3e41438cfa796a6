package db

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrWeightSetNotFound is returned when a named weight set is not stored.
	ErrWeightSetNotFound = errors.New("weight set not found")
	// ErrInvalidWeightSet is returned when labels and vectors do not line up.
	ErrInvalidWeightSet = errors.New("invalid weight set")
)

// WeightSet is an ordered list of item labels with one embedding per label.
type WeightSet struct {
	Name      string      `json:"name"`
	Dim       int         `json:"dim"`
	Labels    []string    `json:"labels"`
	Vectors   [][]float64 `json:"-"`
	CreatedAt int64       `json:"created_at"` // Unix millis
}

// WeightSetInfo summarizes a stored weight set.
type WeightSetInfo struct {
	Name      string `json:"name"`
	Dim       int    `json:"dim"`
	Count     int    `json:"count"`
	CreatedAt int64  `json:"created_at"`
}

// embeddingToBytes encodes a vector as little-endian float64s so a weight set
// read back from the store matches the vectors it was imported from.
func embeddingToBytes(v []float64) []byte {
	out := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
	}
	return out
}

// bytesToEmbedding converts a little-endian byte slice to a vector.
// Each 8 bytes = one LE float64. Short trailing chunk → 0.0.
func bytesToEmbedding(data []byte) []float64 {
	n := len(data) / 8
	if len(data)%8 != 0 {
		n++ // include partial chunk as 0.0
	}
	result := make([]float64, n)
	for i := 0; i < len(data)/8; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		result[i] = math.Float64frombits(bits)
	}
	return result
}

// SaveWeightSet stores labels and vectors under name, replacing any previous
// set with the same name.
func (d *DB) SaveWeightSet(ctx context.Context, name string, labels []string, vectors [][]float64) error {
	if len(labels) != len(vectors) {
		return fmt.Errorf("%w: %d labels for %d vectors", ErrInvalidWeightSet, len(labels), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dims, want %d", ErrInvalidWeightSet, i, len(v), dim)
		}
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE weight_set = ?", name); err != nil {
		return fmt.Errorf("clearing items of %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM weight_sets WHERE name = ?", name); err != nil {
		return fmt.Errorf("clearing weight set %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO weight_sets (name, dim, count, created_at) VALUES (?, ?, ?, ?)",
		name, dim, len(labels), time.Now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("inserting weight set %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO items (weight_set, position, label, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for i, label := range labels {
		if _, err := stmt.ExecContext(ctx, name, i, label, embeddingToBytes(vectors[i])); err != nil {
			return fmt.Errorf("inserting item %d (%s): %w", i, label, err)
		}
	}
	return tx.Commit()
}

// LoadWeightSet returns the labels and vectors of a weight set in position order.
func (d *DB) LoadWeightSet(ctx context.Context, name string) (*WeightSet, error) {
	ws := &WeightSet{Name: name}
	err := d.conn.QueryRowContext(ctx,
		"SELECT dim, created_at FROM weight_sets WHERE name = ?", name,
	).Scan(&ws.Dim, &ws.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrWeightSetNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.conn.QueryContext(ctx,
		"SELECT label, embedding FROM items WHERE weight_set = ? ORDER BY position", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var data []byte
		if err := rows.Scan(&label, &data); err != nil {
			return nil, err
		}
		ws.Labels = append(ws.Labels, label)
		ws.Vectors = append(ws.Vectors, bytesToEmbedding(data))
	}
	return ws, rows.Err()
}

// Labels returns only the ordered labels of a weight set.
func (d *DB) Labels(ctx context.Context, name string) ([]string, error) {
	var exists int
	err := d.conn.QueryRowContext(ctx, "SELECT 1 FROM weight_sets WHERE name = ?", name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrWeightSetNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.conn.QueryContext(ctx,
		"SELECT label FROM items WHERE weight_set = ? ORDER BY position", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// WeightSets lists the stored weight sets ordered by name.
func (d *DB) WeightSets(ctx context.Context) ([]WeightSetInfo, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT name, dim, count, created_at FROM weight_sets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := []WeightSetInfo{}
	for rows.Next() {
		var s WeightSetInfo
		if err := rows.Scan(&s.Name, &s.Dim, &s.Count, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// DeleteWeightSet removes a weight set and its items.
func (d *DB) DeleteWeightSet(ctx context.Context, name string) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE weight_set = ?", name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM weight_sets WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrWeightSetNotFound, name)
	}
	return tx.Commit()
}
