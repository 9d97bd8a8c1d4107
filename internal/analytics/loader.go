// Package analytics loads exported applicant CSVs into an in-memory SQLite
// table for quick inspection and Parquet export.
package analytics

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	_ "modernc.org/sqlite"

	"go-linkedin-applicants/internal/scraper"
)

const (
	// RawTable holds every column of the loaded files with inferred types.
	RawTable = "raw_applicants"
	// Table holds the applicant columns only.
	Table = "applicants"
)

var ErrNoFiles = errors.New("no files match")

type Column struct {
	Name string
	Type string
}

type NullCount struct {
	Column string
	Nulls  int
}

type Loader struct {
	db *sql.DB
}

// Open creates an empty in-memory database. The pool is pinned to one
// connection since every connection to :memory: is a separate database.
func Open(ctx context.Context) (*Loader, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Loader{db: db}, nil
}

func (l *Loader) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// LoadGlob reads every CSV matching pattern into RawTable, replacing what was
// loaded before, and materialises Table from it. All files must share the
// first file's header. Empty cells load as NULL.
func (l *Loader) LoadGlob(ctx context.Context, pattern string) (int, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w %q", ErrNoFiles, pattern)
	}
	slices.Sort(files)

	var header []string
	var rows [][]string
	for _, path := range files {
		h, r, err := readCSV(path)
		if err != nil {
			return 0, err
		}
		if header == nil {
			header = h
		} else if !slices.Equal(header, h) {
			return 0, fmt.Errorf("%s: header %v does not match %v", path, h, header)
		}
		rows = append(rows, r...)
	}
	for _, col := range scraper.Header {
		if !slices.Contains(header, col) {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	types := inferTypes(header, rows)
	if err := l.createRaw(ctx, header, types, rows); err != nil {
		return 0, err
	}
	if err := l.materialise(ctx); err != nil {
		return 0, err
	}

	log.Printf("📥 Loaded %d row(s) from %d file(s)", len(rows), len(files))
	return len(files), nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return header, records[1:], nil
}

// inferTypes picks INTEGER or REAL when every non-empty cell parses as one,
// TEXT otherwise. Record columns are always TEXT so phone numbers keep their
// leading zeros and "+".
func inferTypes(header []string, rows [][]string) []string {
	types := make([]string, len(header))
	for c := range header {
		if slices.Contains(scraper.Header, header[c]) {
			types[c] = "TEXT"
			continue
		}
		isInt, isReal, seen := true, true, false
		for _, row := range rows {
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
			}
		}
		switch {
		case !seen:
			types[c] = "TEXT"
		case isInt:
			types[c] = "INTEGER"
		case isReal:
			types[c] = "REAL"
		default:
			types[c] = "TEXT"
		}
	}
	return types
}

func cellValue(v, typ string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if typ == "TEXT" {
		return v
	}
	v = strings.TrimSpace(v)
	switch typ {
	case "INTEGER":
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case "REAL":
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return v
}

func (l *Loader) createRaw(ctx context.Context, header, types []string, rows [][]string) error {
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " " + types[i]
		marks[i] = "?"
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+RawTable); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", RawTable, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("failed to create %s: %w", RawTable, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", RawTable, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for n, row := range rows {
		for i := range header {
			args[i] = cellValue(row[i], types[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", n+1, err)
		}
	}
	return tx.Commit()
}

func (l *Loader) materialise(ctx context.Context) error {
	cols := make([]string, len(scraper.Header))
	for i, c := range scraper.Header {
		cols[i] = quoteIdent(c)
	}
	if _, err := l.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Table); err != nil {
		return err
	}
	query := fmt.Sprintf("CREATE TABLE %s AS SELECT %s FROM %s", Table, strings.Join(cols, ", "), RawTable)
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", Table, err)
	}
	return nil
}

// Describe lists RawTable's columns and inferred types.
func (l *Loader) Describe(ctx context.Context) ([]Column, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", RawTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (l *Loader) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+Table).Scan(&n)
	return n, err
}

// NullCounts reports the NULL cells per column of RawTable.
func (l *Loader) NullCounts(ctx context.Context) ([]NullCount, error) {
	cols, err := l.Describe(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}

	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = fmt.Sprintf("SUM(CASE WHEN %s IS NULL THEN 1 ELSE 0 END)", quoteIdent(c.Name))
	}
	counts := make([]sql.NullInt64, len(cols))
	dest := make([]any, len(cols))
	for i := range counts {
		dest[i] = &counts[i]
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), RawTable)
	if err := l.db.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return nil, err
	}

	out := make([]NullCount, len(cols))
	for i, c := range cols {
		out[i] = NullCount{Column: c.Name, Nulls: int(counts[i].Int64)}
	}
	return out, nil
}

type parquetRow struct {
	Name        *string `parquet:"name,optional"`
	Location    *string `parquet:"location,optional"`
	Email       *string `parquet:"email,optional"`
	Phone       *string `parquet:"phone,optional"`
	ProfileLink *string `parquet:"profile_link,optional"`
}

// ExportParquet writes Table to path and returns the number of rows written.
func (l *Loader) ExportParquet(ctx context.Context, path string) (int, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT name, location, email, phone, profile_link FROM "+Table)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var out []parquetRow
	for rows.Next() {
		var v [5]sql.NullString
		if err := rows.Scan(&v[0], &v[1], &v[2], &v[3], &v[4]); err != nil {
			return 0, err
		}
		out = append(out, parquetRow{
			Name:        nullable(v[0]),
			Location:    nullable(v[1]),
			Email:       nullable(v[2]),
			Phone:       nullable(v[3]),
			ProfileLink: nullable(v[4]),
		})
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if err := parquet.WriteFile(path, out); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("📦 Exported %d row(s) to %s", len(out), path)
	return len(out), nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
