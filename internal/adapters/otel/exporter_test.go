package otel

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lwerth/INFO510-public/internal/ports"
)

func TestRunAttributes(t *testing.T) {
	m := &ports.RunMetrics{
		RunID:    "4f1f3c2a-aaaa-bbbb-cccc-dddddddddddd",
		Analysis: "bikes",
		Method:   "mcmc",
	}

	got := map[attribute.Key]string{}
	for _, kv := range runAttributes(m) {
		got[kv.Key] = kv.Value.AsString()
	}

	want := map[attribute.Key]string{
		"run_id":   m.RunID,
		"analysis": "bikes",
		"method":   "mcmc",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BAYESLAB_OTEL_ENABLED", "true")
	t.Setenv("BAYESLAB_OTEL_INSECURE", "1")
	t.Setenv("BAYESLAB_OTEL_ENDPOINT", "localhost:4317")

	cfg := LoadConfig()
	if !cfg.Enabled || !cfg.Insecure || cfg.Endpoint != "localhost:4317" {
		t.Errorf("LoadConfig = %+v", cfg)
	}
}
