package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"worklog/internal/core"
	"worklog/internal/sheets"
)

const (
	filePrefix = "work_log_"
	fileSuffix = ".csv"
)

var _ sheets.WeekStore = (*CSVStore)(nil)

// CSVStore keeps one flat CSV file per week under dir.
type CSVStore struct {
	dir string
}

// NewCSVStore returns a store rooted at dir, creating it if absent.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

// Path returns the file that holds key's rows.
func (s *CSVStore) Path(key core.WeekKey) string {
	return filepath.Join(s.dir, filePrefix+key.String()+fileSuffix)
}

// Load reads key's file. A missing file is the first use of the week and
// yields no rows.
func (s *CSVStore) Load(ctx context.Context, key core.WeekKey) ([]core.WorkLogRow, error) {
	f, err := os.Open(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return []core.WorkLogRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open week file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read week file %s: %w", key, err)
	}
	slog.DebugContext(ctx, "Week loaded from CSV", "week_key", key.String(), "rows", len(rows))
	return rows, nil
}

// Save coerces rows and overwrites key's file in full.
func (s *CSVStore) Save(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) error {
	f, err := os.Create(s.Path(key))
	if err != nil {
		return fmt.Errorf("create week file: %w", err)
	}
	if err := WriteRows(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write week file %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close week file: %w", err)
	}
	slog.InfoContext(ctx, "Week saved to CSV", "week_key", key.String(), "rows", len(rows), "path", s.Path(key))
	return nil
}

// LastSaved returns the file modification time.
func (s *CSVStore) LastSaved(_ context.Context, key core.WeekKey) (time.Time, bool, error) {
	st, err := os.Stat(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stat week file: %w", err)
	}
	return st.ModTime(), true, nil
}

// Weeks lists every week file in the directory.
func (s *CSVStore) Weeks(_ context.Context) ([]core.WeekKey, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	var keys []core.WeekKey
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key, err := core.ParseWeekKey(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// ReadRows parses a week file. Columns are matched by header name; cells of
// unknown columns are ignored and absent cells are left to core.CoerceRaw.
func ReadRows(r io.Reader) ([]core.WorkLogRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []core.WorkLogRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := []core.WorkLogRow{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		raw := core.RawRow{}
		for i, col := range header {
			if i < len(rec) {
				raw[col] = rec[i]
			}
		}
		rows = append(rows, core.CoerceRaw(raw))
	}
	return rows, nil
}

// WriteRows writes the header and the coerced rows.
func WriteRows(w io.Writer, rows []core.WorkLogRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range core.Coerce(rows) {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
