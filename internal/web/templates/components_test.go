package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderToString(t *testing.T, render func(ctx context.Context, w *bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func TestIndex_Empty(t *testing.T) {
	page := renderToString(t, func(ctx context.Context, w *bytes.Buffer) error {
		return Index(IndexData{}).Render(ctx, w)
	})

	if !strings.Contains(page, "No runs stored yet") {
		t.Error("empty index missing the getting-started hint")
	}
	if !strings.Contains(page, "<!doctype html>") {
		t.Error("index missing doctype")
	}
}

func TestIndex_RunRows(t *testing.T) {
	data := IndexData{
		RunCount:   1,
		TotalDraws: 4000,
		Runs: []RunSummary{
			{ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479", Analysis: "bikes", Method: "grid", Draws: 4000, Headline: "population mean bicycle share 0.196", CreatedAt: "2026-01-10T09:00:00Z"},
		},
	}
	page := renderToString(t, func(ctx context.Context, w *bytes.Buffer) error {
		return Index(data).Render(ctx, w)
	})

	if !strings.Contains(page, "f47ac10b-58c") {
		t.Error("run ID not truncated to 12 characters")
	}
	if !strings.Contains(page, "/runs/f47ac10b-58cc-4372-a567-0e02b2c3d479") {
		t.Error("run link missing full ID")
	}
	if !strings.Contains(page, "population mean bicycle share") {
		t.Error("headline missing")
	}
}

func TestRun_EscapesText(t *testing.T) {
	data := RunDetail{
		ID:       "run-1",
		Analysis: "hoops",
		Headline: `margin <script>alert("x")</script>`,
		Params:   []ParamRow{{Name: "mu", Mean: "3.390"}},
	}
	page := renderToString(t, func(ctx context.Context, w *bytes.Buffer) error {
		return Run(data).Render(ctx, w)
	})

	if strings.Contains(page, "<script>alert") {
		t.Error("headline rendered unescaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("escaped headline missing")
	}
	if !strings.Contains(page, "mu") {
		t.Error("param row missing")
	}
}

func TestReport_Standalone(t *testing.T) {
	data := ReportData{
		Run: RunDetail{
			ID:       "run-2",
			Analysis: "bikes",
			Headline: "population mean bicycle share 0.196",
			Params:   []ParamRow{{Name: "pop_mean", Mean: "0.196", RHat: "1.003"}},
			Notes:    []string{"10 streets, 212 bicycles of 1160 vehicles"},
		},
		Figures:     []Figure{{Name: "shrinkage.svg", SVG: `<svg class="inline-fig"></svg>`}},
		GeneratedAt: "2026-01-10 09:00",
	}
	page := renderToString(t, func(ctx context.Context, w *bytes.Buffer) error {
		return Report(data).Render(ctx, w)
	})

	if !strings.Contains(page, `<svg class="inline-fig">`) {
		t.Error("figure not inlined raw")
	}
	if !strings.Contains(page, "<style>") {
		t.Error("report missing its own style")
	}
	if strings.Contains(page, "/static/") {
		t.Error("report must not reference server assets")
	}
	if !strings.Contains(page, "10 streets") {
		t.Error("notes missing")
	}
}
