package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/util"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO runs (id, analysis, dataset, method, seed, chains, draws, duration_ms, headline, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Analysis,
		run.Dataset,
		run.Method,
		int64(run.Seed),
		run.Chains,
		run.Draws,
		run.DurationMs,
		util.NullStringPtr(run.Headline),
		util.NullString(strings.Join(run.Notes, "\n")),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	query := `
		SELECT id, analysis, dataset, method, seed, chains, draws, duration_ms, headline, notes, created_at
		FROM runs
		WHERE id = ?
	`
	var run domain.Run
	var seed int64
	var headline, notes sql.NullString
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Analysis,
		&run.Dataset,
		&run.Method,
		&seed,
		&run.Chains,
		&run.Draws,
		&run.DurationMs,
		&headline,
		&notes,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := hydrateRun(&run, seed, headline, notes, createdAt); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) List(ctx context.Context, opts ports.ListRunsOptions) ([]*domain.Run, error) {
	query := `
		SELECT id, analysis, dataset, method, seed, chains, draws, duration_ms, headline, notes, created_at
		FROM runs
	`
	args := []any{}
	if opts.Analysis != nil {
		query += " WHERE analysis = ?"
		args = append(args, *opts.Analysis)
	}
	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		var run domain.Run
		var seed int64
		var headline, notes sql.NullString
		var createdAt string

		err := rows.Scan(
			&run.ID,
			&run.Analysis,
			&run.Dataset,
			&run.Method,
			&seed,
			&run.Chains,
			&run.Draws,
			&run.DurationMs,
			&headline,
			&notes,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := hydrateRun(&run, seed, headline, notes, createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func (r *RunRepository) Delete(ctx context.Context, id string) error {
	// Delete summaries explicitly rather than relying on foreign key
	// enforcement, which is off by default on fresh SQLite connections.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM param_summaries WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run summaries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return tx.Commit()
}

func (r *RunRepository) Stats(ctx context.Context) (*domain.RunStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(draws), 0), COALESCE(SUM(duration_ms), 0), MAX(created_at)
		FROM runs
	`
	var stats domain.RunStats
	var lastRunAt sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.RunCount,
		&stats.TotalDraws,
		&stats.TotalDurationMs,
		&lastRunAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}

	if lastRunAt.Valid {
		t, err := time.Parse(time.RFC3339, lastRunAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last run time: %w", err)
		}
		stats.LastRunAt = &t
	}
	return &stats, nil
}

func (r *RunRepository) CountByAnalysis(ctx context.Context) ([]domain.AnalysisCount, error) {
	query := `
		SELECT analysis, COUNT(*)
		FROM runs
		GROUP BY analysis
		ORDER BY analysis
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs by analysis: %w", err)
	}
	defer rows.Close()

	var counts []domain.AnalysisCount
	for rows.Next() {
		var c domain.AnalysisCount
		if err := rows.Scan(&c.Analysis, &c.RunCount); err != nil {
			return nil, fmt.Errorf("failed to scan analysis count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis counts: %w", err)
	}
	return counts, nil
}

func hydrateRun(run *domain.Run, seed int64, headline, notes sql.NullString, createdAt string) error {
	run.Seed = uint64(seed)
	run.Headline = util.NullStringToPtr(headline)
	if notes.Valid && notes.String != "" {
		run.Notes = strings.Split(notes.String, "\n")
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("failed to parse created_at: %w", err)
	}
	run.CreatedAt = t
	return nil
}
