package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saikumarakula/HVM/internal/ir"
)

// ErrNotFound is returned by GetRun for an unknown id.
var ErrNotFound = errors.New("run not found")

// ListFilter narrows ListRuns. Zero values match everything.
type ListFilter struct {
	BookHash string
	Limit    int
}

// ListRuns returns recorded runs, most recent first.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f ListFilter) ([]ir.RunRecord, error) {
	query := `
		SELECT seq, id, book_hash, program, mode, workers, result, interactions, elapsed_ns
		FROM runs`
	var args []any
	if f.BookHash != "" {
		query += ` WHERE book_hash = ?`
		args = append(args, f.BookHash)
	}
	query += ` ORDER BY seq DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, book_hash, program, mode, workers, result, interactions, elapsed_ns
		FROM runs
		WHERE id = ?
	`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.RunRecord, error) {
	var rec ir.RunRecord
	var itrs int64
	err := row.Scan(
		&rec.Seq,
		&rec.ID,
		&rec.BookHash,
		&rec.Program,
		&rec.Mode,
		&rec.Workers,
		&rec.Result,
		&itrs,
		&rec.ElapsedNanos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scan run: %w", err)
	}
	rec.Interactions = uint64(itrs)
	return rec, nil
}
