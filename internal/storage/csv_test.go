package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/core"
)

const testKey = core.WeekKey("2025_M10_W42")

func sampleRows() []core.WorkLogRow {
	return []core.WorkLogRow{
		{Date: "2025-10-13", Project: "Alpha", Task: "Build, test", Effort: 3.5, Summary: "multi\nline \"quoted\"", InternalMeetings: 0.5},
		{Date: "2025-10-13", Project: "", Task: "", Effort: 0, Summary: ""},
		{Date: "2025-10-14", Project: "Beta", Task: "Review", Effort: 8, ClientMeetings: 1},
		{Date: "2025-10-20", Project: "Out of window", Effort: -2}, // accepted as-is
		{Date: "2025-10-15", Project: "Gamma", Summary: "line1\r\nline2", Effort: 1},
	}
}

func TestCSVStore_LoadMissingIsEmpty(t *testing.T) {
	s, err := NewCSVStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	rows, err := s.Load(context.Background(), testKey)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, ok, err := s.LastSaved(context.Background(), testKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	want := sampleRows()
	require.NoError(t, s.Save(ctx, testKey, want))

	got, err := s.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, core.Coerce(want), got)
	assert.Equal(t, "line1\nline2", got[4].Summary)

	// Saving what was loaded writes the same rows back.
	require.NoError(t, s.Save(ctx, testKey, got))
	again, err := s.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, ok, err := s.LastSaved(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCSVStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, testKey, sampleRows()))
	require.NoError(t, s.Save(ctx, testKey, []core.WorkLogRow{{Date: "2025-10-15", Project: "Only"}}))

	got, err := s.Load(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Only", got[0].Project)
}

func TestCSVStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewCSVStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, testKey, []core.WorkLogRow{{Date: "2025-10-13", Project: "Alpha", Effort: 2}}))

	path := filepath.Join(dir, "work_log_2025_M10_W42.csv")
	assert.Equal(t, path, s.Path(testKey))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Project Name,Task,Effort Spent (hrs),Task Summary,Internal Meetings Time (hrs),Client Meetings Time (hrs)", lines[0])
	assert.Equal(t, "2025-10-13,Alpha,,2.0,,0.0,0.0", lines[1])
}

func TestReadRows_CoercesCells(t *testing.T) {
	in := "\ufeffDate,Project Name,Effort Spent (hrs),Internal Meetings Time (hrs),Extra\n" +
		"2025-10-13,Alpha,2.5,abc,ignored\n" +
		"2025-10-14,Beta,,1\n" +
		"2025-10-15\n"
	rows, err := ReadRows(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2.5, rows[0].Effort)
	assert.Equal(t, 0.0, rows[0].InternalMeetings)
	assert.Equal(t, core.MissingText, rows[0].Task, "absent column")

	assert.Equal(t, 0.0, rows[1].Effort)
	assert.Equal(t, 1.0, rows[1].InternalMeetings)

	assert.Equal(t, "2025-10-15", rows[2].Date)
	assert.Equal(t, core.MissingText, rows[2].Project, "short record")
}

func TestReadRows_Empty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVStore_Weeks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewCSVStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "2025_M10_W42", nil))
	require.NoError(t, s.Save(ctx, "2025_M01_W01", nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work_log_bogus.csv"), []byte("x"), 0o644))

	keys, err := s.Weeks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.WeekKey{"2025_M01_W01", "2025_M10_W42"}, keys)
}
