package store

import (
	"context"
	"fmt"

	"github.com/saikumarakula/HVM/internal/ir"
)

// WriteRun appends a run record and returns it with Seq filled in.
// Writing the same ID twice is a no-op that returns the stored Seq.
func (s *Store) WriteRun(ctx context.Context, rec ir.RunRecord) (ir.RunRecord, error) {
	if rec.ID == "" {
		return rec, fmt.Errorf("write run: empty id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, book_hash, program, mode, workers, result, interactions, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.BookHash,
		rec.Program,
		rec.Mode,
		rec.Workers,
		rec.Result,
		int64(rec.Interactions),
		rec.ElapsedNanos,
	)
	if err != nil {
		return rec, fmt.Errorf("write run: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, rec.ID).Scan(&rec.Seq); err != nil {
		return rec, fmt.Errorf("write run: read seq: %w", err)
	}
	return rec, nil
}
