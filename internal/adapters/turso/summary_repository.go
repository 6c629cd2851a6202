package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/util"
)

type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) CreateBatch(ctx context.Context, summaries []*domain.ParamSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO param_summaries (run_id, name, ord, mean, sd, median, q025, q25, q75, q975, rhat, ess)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, s := range summaries {
		_, err := tx.ExecContext(ctx, query,
			s.RunID,
			s.Name,
			s.Ord,
			s.Mean,
			s.SD,
			s.Median,
			s.Q025,
			s.Q25,
			s.Q75,
			s.Q975,
			util.NullFloat64(s.RHat),
			util.NullFloat64(s.ESS),
		)
		if err != nil {
			return fmt.Errorf("failed to create summary %s: %w", s.Name, err)
		}
	}
	return tx.Commit()
}

func (r *SummaryRepository) ListByRunID(ctx context.Context, runID string) ([]*domain.ParamSummary, error) {
	query := `
		SELECT run_id, name, ord, mean, sd, median, q025, q25, q75, q975, rhat, ess
		FROM param_summaries
		WHERE run_id = ?
		ORDER BY ord
	`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ParamSummary
	for rows.Next() {
		var s domain.ParamSummary
		var rhat, ess sql.NullFloat64

		err := rows.Scan(
			&s.RunID,
			&s.Name,
			&s.Ord,
			&s.Mean,
			&s.SD,
			&s.Median,
			&s.Q025,
			&s.Q25,
			&s.Q75,
			&s.Q975,
			&rhat,
			&ess,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}

		if rhat.Valid {
			s.RHat = &rhat.Float64
		}
		if ess.Valid {
			s.ESS = &ess.Float64
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}
	return summaries, nil
}

func (r *SummaryRepository) DeleteByRunID(ctx context.Context, runID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM param_summaries WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete summaries: %w", err)
	}
	return nil
}
