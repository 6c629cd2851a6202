package runner_test

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/lwerth/INFO510-public/internal/adapters/storage"
	"github.com/lwerth/INFO510-public/internal/adapters/turso"
	"github.com/lwerth/INFO510-public/internal/analysis"
	"github.com/lwerth/INFO510-public/internal/migrate"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/runner"
	"github.com/lwerth/INFO510-public/internal/stats"
)

func testEnv(t *testing.T) (*turso.Repositories, *storage.ArtifactStorage) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "runner_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := migrate.RunAll(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := storage.NewArtifactStorage()
	if err != nil {
		t.Fatalf("NewArtifactStorage failed: %v", err)
	}
	return turso.NewRepositories(db), store
}

func testResult() *analysis.Result {
	draws := make([]float64, 200)
	for i := range draws {
		draws[i] = 185 + 10*math.Sin(float64(i))
	}
	res := &analysis.Result{
		Analysis: "hoops",
		Dataset:  "basketball.csv",
		Method:   "direct",
		Seed:     42,
		Chains:   1,
		Duration: 12 * time.Millisecond,
		Names:    []string{"pred"},
		Columns:  [][]float64{draws},
		Headline: "Expected total around 185 points.",
	}
	res.Summaries = stats.SummarizeAll(res.Names, res.Columns)
	return res
}

type capturingExporter struct {
	exported []*ports.RunMetrics
}

func (e *capturingExporter) ExportRunMetrics(ctx context.Context, m *ports.RunMetrics) error {
	e.exported = append(e.exported, m)
	return nil
}

func (e *capturingExporter) Close(ctx context.Context) error { return nil }

// failingStore stores through the real store until the named artifact
// comes up, then errors. Delete still passes through, so cleanup works.
type failingStore struct {
	ports.ArtifactStore
	failOn    string
	lastRunID string
}

func (f *failingStore) Store(ctx context.Context, runID, name string, data []byte) (string, error) {
	f.lastRunID = runID
	if name == f.failOn {
		return "", fmt.Errorf("disk full")
	}
	return f.ArtifactStore.Store(ctx, runID, name, data)
}

func TestServiceSave_RoundTrip(t *testing.T) {
	repos, store := testEnv(t)
	exp := &capturingExporter{}
	svc := runner.New(repos.Runs, repos.Summaries, store, exp, zerolog.Nop())
	ctx := context.Background()

	run, err := svc.Save(ctx, testResult())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repos.Runs.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("saved run not found")
	}
	if got.Analysis != "hoops" || got.Draws != 200 {
		t.Errorf("stored run = %s/%d draws, want hoops/200", got.Analysis, got.Draws)
	}

	sums, err := repos.Summaries.ListByRunID(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListByRunID failed: %v", err)
	}
	if len(sums) != 1 || sums[0].Name != "pred" {
		t.Errorf("expected one pred summary, got %v", sums)
	}

	names, err := store.List(ctx, run.ID)
	if err != nil {
		t.Fatalf("List artifacts failed: %v", err)
	}
	want := []string{"draws.csv", "pred_hist.svg", "report.html"}
	if len(names) != len(want) {
		t.Fatalf("artifacts = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("artifact %d = %s, want %s", i, names[i], want[i])
		}
	}

	if len(exp.exported) != 1 {
		t.Fatalf("expected one metrics export, got %d", len(exp.exported))
	}
	if exp.exported[0].RunID != run.ID {
		t.Errorf("exported RunID = %s, want %s", exp.exported[0].RunID, run.ID)
	}

	if err := svc.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = repos.Runs.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID after delete failed: %v", err)
	}
	if got != nil {
		t.Error("run still present after delete")
	}
	names, err = store.List(ctx, run.ID)
	if err != nil {
		t.Fatalf("List after delete failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("artifacts still present after delete: %v", names)
	}
}

func TestServiceSave_DiscardsOnArtifactFailure(t *testing.T) {
	repos, store := testEnv(t)
	// Fail on the report so the run row, summaries, draws and figure are
	// all in place before the save goes wrong.
	failing := &failingStore{ArtifactStore: store, failOn: "report.html"}
	svc := runner.New(repos.Runs, repos.Summaries, failing, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Save(ctx, testResult()); err == nil {
		t.Fatal("expected Save to fail on the report artifact")
	}
	if failing.lastRunID == "" {
		t.Fatal("store was never reached")
	}

	runs, err := repos.Runs.List(ctx, ports.ListRunsOptions{})
	if err != nil {
		t.Fatalf("List runs failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("partial run left behind: %v", runs)
	}

	sums, err := repos.Summaries.ListByRunID(ctx, failing.lastRunID)
	if err != nil {
		t.Fatalf("ListByRunID failed: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("partial summaries left behind: %v", sums)
	}

	names, err := store.List(ctx, failing.lastRunID)
	if err != nil {
		t.Fatalf("List artifacts failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("partial artifacts left behind: %v", names)
	}
}
