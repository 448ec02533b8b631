// Package export persists captured feature sequences as CSV artifacts.
//
// An artifact holds one row per feature vector, Width comma-separated angle
// values per row, and no header. It is named after the gesture label
// (TAP.csv, ZOOM_IN.csv, ...) and a repeat capture overwrites it.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultWidth persists every angle. Older datasets were written with 15
// columns; set Width to 15 to reproduce them.
const DefaultWidth = features.Count

const (
	fileExt       = ".csv"
	lockRetry     = 20 * time.Millisecond
	lockTimeout   = 5 * time.Second
	filePerm      = 0o644
	directoryPerm = 0o755
)

// Writer writes artifacts into a directory.
type Writer struct {
	dir   string
	width int
}

// NewWriter creates a Writer. A width outside [1, features.Count] falls back
// to DefaultWidth.
func NewWriter(dir string, width int) *Writer {
	if width < 1 || width > features.Count {
		width = DefaultWidth
	}
	return &Writer{dir: dir, width: width}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Width returns the number of columns written per row.
func (w *Writer) Width() int {
	return w.width
}

// Path returns the artifact path for a label.
func (w *Writer) Path(label gesture.Gesture) string {
	return filepath.Join(w.dir, label.String()+fileExt)
}

// Write replaces the artifact for label with rows. The file is written to a
// temporary sibling and renamed into place while holding an advisory lock, so
// readers never see a partial file.
func (w *Writer) Write(ctx context.Context, label gesture.Gesture, rows []features.Vector) (string, error) {
	path := w.Path(label)
	if !label.Valid() {
		return path, &IOError{Op: "write", Path: path, Err: fmt.Errorf("%w: %s", gesture.ErrUnknownGesture, label)}
	}

	if err := os.MkdirAll(w.dir, directoryPerm); err != nil {
		return path, &IOError{Op: "create dir", Path: w.dir, Err: err}
	}

	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return path, &IOError{Op: "lock", Path: path, Err: err}
	}
	if !locked {
		return path, &IOError{Op: "lock", Path: path, Err: errors.New("lock busy")}
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(w.dir, "."+label.String()+"-*.tmp")
	if err != nil {
		return path, &IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := w.encode(tmp, rows); err != nil {
		_ = tmp.Close()
		return path, &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return path, &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return path, &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return path, &IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return path, nil
}

func (w *Writer) encode(out io.Writer, rows []features.Vector) error {
	cw := csv.NewWriter(out)
	record := make([]string, w.width)
	for i := range rows {
		for k := 0; k < w.width; k++ {
			record[k] = strconv.FormatFloat(float64(rows[i][k]), 'g', -1, 32)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read loads an artifact. Rows narrower than features.Count leave the
// remaining angles at zero.
func Read(path string) ([]features.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	var rows []features.Vector
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		if len(record) > features.Count {
			return nil, &IOError{Op: "read", Path: path, Err: fmt.Errorf("line %d: %d fields, want at most %d", line, len(record), features.Count)}
		}

		var v features.Vector
		for k, field := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, &IOError{Op: "read", Path: path, Err: fmt.Errorf("line %d field %d: %w", line, k+1, err)}
			}
			v[k] = float32(value)
		}
		rows = append(rows, v)
	}
	return rows, nil
}

// LoadDir reads every artifact in dir whose name is a gesture label.
// A missing directory yields an empty result.
func LoadDir(dir string) (map[gesture.Gesture][]features.Vector, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return map[gesture.Gesture][]features.Vector{}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read dir", Path: dir, Err: err}
	}

	out := make(map[gesture.Gesture][]features.Vector)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fileExt {
			continue
		}
		g, err := gesture.Parse(strings.TrimSuffix(name, fileExt))
		if err != nil || !g.Valid() {
			continue
		}
		rows, err := Read(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[g] = rows
		}
	}
	return out, nil
}
