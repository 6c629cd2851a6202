// Package runner persists finished analyses: the run row and parameter
// summaries into the database, the draw matrix, figures, and report
// into the artifact store, and a metrics sample to the exporter.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lwerth/INFO510-public/internal/analysis"
	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/plot"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/web/templates"
)

type Service struct {
	runs      ports.RunRepository
	summaries ports.SummaryRepository
	artifacts ports.ArtifactStore
	exporter  ports.MetricsExporter
	logger    zerolog.Logger
}

func New(
	runs ports.RunRepository,
	summaries ports.SummaryRepository,
	artifacts ports.ArtifactStore,
	exporter ports.MetricsExporter,
	logger zerolog.Logger,
) *Service {
	return &Service{
		runs:      runs,
		summaries: summaries,
		artifacts: artifacts,
		exporter:  exporter,
		logger:    logger,
	}
}

// Save persists a finished analysis and returns the stored run record.
// On artifact failure the partially stored run is removed again.
func (s *Service) Save(ctx context.Context, res *analysis.Result) (*domain.Run, error) {
	runID := uuid.New().String()
	run := res.NewRun(runID, time.Now().UTC())

	if err := s.runs.Create(ctx, &run); err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}

	summaries := make([]*domain.ParamSummary, len(res.Summaries))
	for i := range res.Summaries {
		sum := res.Summaries[i]
		sum.RunID = runID
		summaries[i] = &sum
	}
	if err := s.summaries.CreateBatch(ctx, summaries); err != nil {
		s.discard(ctx, runID)
		return nil, fmt.Errorf("saving summaries: %w", err)
	}

	if err := s.storeArtifacts(ctx, runID, res); err != nil {
		s.discard(ctx, runID)
		return nil, err
	}

	if s.exporter != nil {
		metrics := &ports.RunMetrics{
			RunID:      runID,
			Analysis:   res.Analysis,
			Method:     res.Method,
			Chains:     int64(res.Chains),
			Draws:      run.Draws,
			DurationMs: run.DurationMs,
			Acceptance: res.Acceptance,
			MaxRHat:    maxRHat(res.Summaries),
		}
		if err := s.exporter.ExportRunMetrics(ctx, metrics); err != nil {
			s.logger.Warn().Err(err).Str("run", runID).Msg("exporting run metrics")
		}
	}

	s.logger.Info().
		Str("run", runID).
		Str("analysis", res.Analysis).
		Int64("draws", run.Draws).
		Msg("run saved")
	return &run, nil
}

// Delete removes a run from the database and the artifact store.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.runs.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.artifacts.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *Service) discard(ctx context.Context, runID string) {
	if err := s.Delete(ctx, runID); err != nil {
		s.logger.Warn().Err(err).Str("run", runID).Msg("cleaning up failed save")
	}
}

func (s *Service) storeArtifacts(ctx context.Context, runID string, res *analysis.Result) error {
	draws, err := EncodeDraws(res.Names, res.Columns)
	if err != nil {
		return fmt.Errorf("encoding draws: %w", err)
	}
	if _, err := s.artifacts.Store(ctx, runID, "draws.csv", draws); err != nil {
		return fmt.Errorf("storing draws: %w", err)
	}

	figures, err := plot.ForResult(res)
	if err != nil {
		return fmt.Errorf("rendering figures: %w", err)
	}
	for _, name := range sortedKeys(figures) {
		if _, err := s.artifacts.Store(ctx, runID, name, figures[name]); err != nil {
			return fmt.Errorf("storing figure %s: %w", name, err)
		}
	}

	report, err := renderReport(runID, res, figures)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if _, err := s.artifacts.Store(ctx, runID, "report.html", report); err != nil {
		return fmt.Errorf("storing report: %w", err)
	}
	return nil
}

func renderReport(runID string, res *analysis.Result, figures map[string][]byte) ([]byte, error) {
	detail := templates.RunDetail{
		ID:       runID,
		Analysis: res.Analysis,
		Dataset:  res.Dataset,
		Method:   res.Method,
		Seed:     strconv.FormatUint(res.Seed, 10),
		Chains:   int64(res.Chains),
		Draws:    res.DrawCount(),
		Duration: res.Duration.Round(time.Millisecond).String(),
		Headline: res.Headline,
		Notes:    res.Notes,
	}
	for _, sum := range res.Summaries {
		row := templates.ParamRow{
			Name:   sum.Name,
			Mean:   fmt.Sprintf("%.3f", sum.Mean),
			SD:     fmt.Sprintf("%.3f", sum.SD),
			Median: fmt.Sprintf("%.3f", sum.Median),
			Lo95:   fmt.Sprintf("%.3f", sum.Q025),
			Hi95:   fmt.Sprintf("%.3f", sum.Q975),
		}
		if sum.RHat != nil {
			row.RHat = fmt.Sprintf("%.3f", *sum.RHat)
		}
		if sum.ESS != nil {
			row.ESS = fmt.Sprintf("%.0f", *sum.ESS)
		}
		detail.Params = append(detail.Params, row)
	}

	data := templates.ReportData{
		Run:         detail,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	}
	for _, name := range sortedKeys(figures) {
		data.Figures = append(data.Figures, templates.Figure{
			Name: name,
			SVG:  string(figures[name]),
		})
	}

	var buf bytes.Buffer
	if err := templates.Report(data).Render(context.Background(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func maxRHat(summaries []domain.ParamSummary) float64 {
	max := 0.0
	for _, s := range summaries {
		if s.RHat != nil && *s.RHat > max {
			max = *s.RHat
		}
	}
	return max
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
