package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/web/templates"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := s.fetchIndexData(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("loading runs index")
		http.Error(w, "failed to load runs", http.StatusInternalServerError)
		return
	}

	_ = templates.Index(*data).Render(ctx, w)
}

func (s *Server) fetchIndexData(ctx context.Context) (*templates.IndexData, error) {
	// Results collected by each goroutine (no mutex needed, each writes
	// its own var)
	var (
		stats  *domain.RunStats
		counts []domain.AnalysisCount
		runs   []*domain.Run
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if stats, err = s.runRepo.Stats(gctx); err != nil {
			return fmt.Errorf("run stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if counts, err = s.runRepo.CountByAnalysis(gctx); err != nil {
			return fmt.Errorf("analysis counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if runs, err = s.runRepo.List(gctx, ports.ListRunsOptions{Limit: 50}); err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &templates.IndexData{
		RunCount:   stats.RunCount,
		TotalDraws: stats.TotalDraws,
	}
	if stats.LastRunAt != nil {
		data.LastRunAt = stats.LastRunAt.Format(time.RFC3339)
	}
	for _, c := range counts {
		data.Counts = append(data.Counts, templates.AnalysisCount{
			Analysis: c.Analysis,
			RunCount: c.RunCount,
		})
	}
	for _, run := range runs {
		summary := templates.RunSummary{
			ID:        run.ID,
			Analysis:  run.Analysis,
			Method:    run.Method,
			Draws:     run.Draws,
			CreatedAt: run.CreatedAt.Format(time.RFC3339),
		}
		if run.Headline != nil {
			summary.Headline = *run.Headline
		}
		data.Runs = append(data.Runs, summary)
	}
	return data, nil
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("run", id).Msg("loading run")
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	summaries, err := s.summaries.ListByRunID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("run", id).Msg("loading summaries")
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	artifacts, err := s.artifacts.List(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("run", id).Msg("listing artifacts")
	}

	data := buildRunDetail(run, summaries, artifacts)
	_ = templates.Run(data).Render(ctx, w)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	name := r.PathValue("name")

	exists, err := s.artifacts.Exists(ctx, id, name)
	if err != nil {
		s.logger.Error().Err(err).Str("run", id).Str("artifact", name).Msg("checking artifact")
		http.Error(w, "failed to load artifact", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}

	data, err := s.artifacts.Get(ctx, id, name)
	if err != nil {
		s.logger.Error().Err(err).Str("run", id).Str("artifact", name).Msg("reading artifact")
		http.Error(w, "failed to load artifact", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", artifactContentType(name))
	_, _ = w.Write(data)
}

func artifactContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(name, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(name, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func buildRunDetail(run *domain.Run, summaries []*domain.ParamSummary, artifacts []string) templates.RunDetail {
	data := templates.RunDetail{
		ID:        run.ID,
		Analysis:  run.Analysis,
		Dataset:   run.Dataset,
		Method:    run.Method,
		Seed:      strconv.FormatUint(run.Seed, 10),
		Chains:    run.Chains,
		Draws:     run.Draws,
		Duration:  (time.Duration(run.DurationMs) * time.Millisecond).String(),
		Notes:     run.Notes,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
	if run.Headline != nil {
		data.Headline = *run.Headline
	}

	for _, s := range summaries {
		row := templates.ParamRow{
			Name:   s.Name,
			Mean:   fmt.Sprintf("%.3f", s.Mean),
			SD:     fmt.Sprintf("%.3f", s.SD),
			Median: fmt.Sprintf("%.3f", s.Median),
			Lo95:   fmt.Sprintf("%.3f", s.Q025),
			Hi95:   fmt.Sprintf("%.3f", s.Q975),
		}
		if s.RHat != nil {
			row.RHat = fmt.Sprintf("%.3f", *s.RHat)
		}
		if s.ESS != nil {
			row.ESS = fmt.Sprintf("%.0f", *s.ESS)
		}
		data.Params = append(data.Params, row)
	}

	for _, name := range artifacts {
		if strings.HasSuffix(name, ".svg") {
			data.Figures = append(data.Figures, name)
		}
		data.Artifacts = append(data.Artifacts, name)
	}
	return data
}
