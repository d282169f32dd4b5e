package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/xuri/excelize/v2"
)

// WorkbookRepository reads the participation workbook from disk.
type WorkbookRepository struct {
	path  string
	sheet string
	log   zerolog.Logger
	now   func() time.Time
}

// NewWorkbookRepository creates a WorkbookRepository. path may be a workbook
// or a directory containing one; an empty sheet selects the first sheet.
func NewWorkbookRepository(path, sheet string, log zerolog.Logger) *WorkbookRepository {
	return &WorkbookRepository{
		path:  path,
		sheet: sheet,
		log:   log.With().Str("component", "workbook_repository").Logger(),
		now:   time.Now,
	}
}

// Source returns the configured path, used as the cache identity.
func (r *WorkbookRepository) Source() string {
	return r.path
}

// Load reads and validates the workbook into a fresh Table.
func (r *WorkbookRepository) Load(ctx context.Context) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := Locate(r.path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFileUnreadable, path, err)
	}
	defer f.Close()

	sheet := r.sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrFileUnreadable, path)
		}
		sheet = sheets[0]
	} else if !contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: sheet %q not found in %s (sheets: %s)",
			ErrSchemaMismatch, sheet, path, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrFileUnreadable, sheet, err)
	}

	parsed, err := ParseRows(sheet, rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	table := &model.Table{
		Records:  parsed.Records,
		Students: parsed.Students,
		Weeks:    parsed.Weeks,
		Source:   path,
		Sheet:    sheet,
		Layout:   parsed.Layout,
		Version:  uuid.NewString(),
		LoadedAt: r.now().UTC(),
	}

	r.log.Debug().
		Str("path", path).
		Str("sheet", sheet).
		Str("layout", string(table.Layout)).
		Int("records", len(table.Records)).
		Msg("Workbook parsed")

	return table, nil
}

// Locate resolves path to a workbook file. A directory is searched for the
// *.xlsx that looks most like the class participation sheet.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	type candidate struct {
		path    string
		score   int
		modTime time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(path, name),
			score:   nameScore(name),
			modTime: fi.ModTime(),
		})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no .xlsx workbook in %s", ErrFileNotFound, path)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	return candidates[0].path, nil
}

func nameScore(name string) int {
	n := strings.ToLower(name)
	score := 0
	if strings.Contains(n, "participation") {
		score += 3
	}
	if strings.Contains(n, "healthcare") || strings.Contains(n, "health care") {
		score += 2
	}
	if strings.Contains(n, "class") {
		score++
	}
	return score
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
