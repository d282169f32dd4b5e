package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookRepositoryLoad(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "class.xlsx", testutil.ExampleRows())

	repo := NewWorkbookRepository(path, "", zerolog.Nop())
	table, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, "Sheet1", table.Sheet)
	assert.Len(t, table.Records, 4)
	assert.Equal(t, []string{"A", "B"}, table.Students)
	assert.Len(t, table.Weeks, 2)
	assert.NotEmpty(t, table.Version)
	assert.False(t, table.LoadedAt.IsZero())
}

func TestWorkbookRepositoryMissingFile(t *testing.T) {
	repo := NewWorkbookRepository(filepath.Join(t.TempDir(), "nope.xlsx"), "", zerolog.Nop())
	_, err := repo.Load(context.Background())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestWorkbookRepositoryUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := NewWorkbookRepository(path, "", zerolog.Nop()).Load(context.Background())
	assert.True(t, errors.Is(err, ErrFileUnreadable))
}

func TestWorkbookRepositoryUnknownSheet(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "class.xlsx", testutil.ExampleRows())

	_, err := NewWorkbookRepository(path, "Week 9", zerolog.Nop()).Load(context.Background())
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestWorkbookRepositorySchemaMismatch(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "class.xlsx", [][]interface{}{
		{"Student", "Week", "Score"},
		{"A", "Week 1", 3},
	})

	_, err := NewWorkbookRepository(path, "", zerolog.Nop()).Load(context.Background())
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.ElementsMatch(t, []string{"participation", "status"}, se.Missing)
}

func TestLocateDirectory(t *testing.T) {
	dir := t.TempDir()
	older := testutil.WriteWorkbook(t, dir, "notes.xlsx", testutil.ExampleRows())
	best := testutil.WriteWorkbook(t, dir, "American HealthCare Class Participation.xlsx", testutil.ExampleRows())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(best, past, past))

	got, err := Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, best, got, "name score beats modification time")
	_ = older
}

func TestLocateEmptyDirectory(t *testing.T) {
	_, err := Locate(t.TempDir())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWorkbookRepository("whatever.xlsx", "", zerolog.Nop()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
