package ports

import (
	"context"

	"github.com/lwerth/INFO510-public/internal/domain"
)

type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	List(ctx context.Context, opts ListRunsOptions) ([]*domain.Run, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.RunStats, error)
	CountByAnalysis(ctx context.Context) ([]domain.AnalysisCount, error)
}

type ListRunsOptions struct {
	Limit    int
	Analysis *string
}

type SummaryRepository interface {
	CreateBatch(ctx context.Context, summaries []*domain.ParamSummary) error
	ListByRunID(ctx context.Context, runID string) ([]*domain.ParamSummary, error)
	DeleteByRunID(ctx context.Context, runID string) error
}
