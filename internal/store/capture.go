package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
)

// Capture is an exported session recorded in the catalogue.
type Capture struct {
	ID        string            `json:"id"`
	Label     gesture.Gesture   `json:"label"`
	Frames    int               `json:"frames"`
	Width     int               `json:"width"`
	Path      string            `json:"path"`
	Sequence  []features.Vector `json:"sequence,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// CaptureRepository provides CRUD operations for captures.
type CaptureRepository struct {
	db *sql.DB
}

// Captures returns the capture repository for this store.
func (s *Store) Captures() *CaptureRepository {
	return &CaptureRepository{db: s.db}
}

// Create inserts a capture. An empty ID is filled with a new UUID and Frames
// is taken from the sequence.
func (r *CaptureRepository) Create(c *Capture) error {
	if !c.Label.Valid() {
		return fmt.Errorf("capture label: %w", gesture.ErrUnknownGesture)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	c.Frames = len(c.Sequence)

	seq, err := json.Marshal(c.Sequence)
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	if c.Sequence == nil {
		seq = []byte("[]")
	}

	_, err = r.db.Exec(
		`INSERT INTO captures (id, label, frames, width, path, sequence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Label.String(), c.Frames, c.Width, c.Path, string(seq), c.CreatedAt,
	)
	return err
}

// GetByID retrieves a capture with its sequence.
func (r *CaptureRepository) GetByID(id string) (*Capture, error) {
	row := r.db.QueryRow(
		`SELECT id, label, frames, width, path, sequence, created_at
		 FROM captures WHERE id = ?`,
		id,
	)
	c, err := scanCapture(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// List retrieves all captures, newest first, without their sequences.
func (r *CaptureRepository) List() ([]*Capture, error) {
	rows, err := r.db.Query(
		`SELECT id, label, frames, width, path, '[]', created_at
		 FROM captures ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCaptures(rows, false)
}

// ListByLabel retrieves every capture of one gesture with sequences, oldest first.
func (r *CaptureRepository) ListByLabel(label gesture.Gesture) ([]*Capture, error) {
	rows, err := r.db.Query(
		`SELECT id, label, frames, width, path, sequence, created_at
		 FROM captures WHERE label = ? ORDER BY created_at`,
		label.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCaptures(rows, true)
}

// CountByLabel returns the number of captures per gesture.
func (r *CaptureRepository) CountByLabel() (map[gesture.Gesture]int, error) {
	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM captures GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[gesture.Gesture]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		g, err := gesture.Parse(label)
		if err != nil {
			return nil, err
		}
		counts[g] = n
	}
	return counts, rows.Err()
}

// Delete removes a capture by its ID.
func (r *CaptureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(row scanner, withSequence bool) (*Capture, error) {
	c := &Capture{}
	var label, seq string
	if err := row.Scan(&c.ID, &label, &c.Frames, &c.Width, &c.Path, &seq, &c.CreatedAt); err != nil {
		return nil, err
	}

	g, err := gesture.Parse(label)
	if err != nil {
		return nil, err
	}
	c.Label = g

	if withSequence {
		if err := json.Unmarshal([]byte(seq), &c.Sequence); err != nil {
			return nil, fmt.Errorf("decode sequence for capture %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func collectCaptures(rows *sql.Rows, withSequence bool) ([]*Capture, error) {
	var captures []*Capture
	for rows.Next() {
		c, err := scanCapture(rows, withSequence)
		if err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return captures, nil
}
