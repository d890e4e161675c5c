package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveLLMRequest("openai", "analysis", "ok", time.Second, 10, 20)
	m.IncLLMRetry("openai", "analysis")
	m.IncBulkItem("failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics handler status=%d want 503", rec.Code)
	}
}

func TestHandlerExposesObservations(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/analyze", "200", 250*time.Millisecond)
	m.ObserveLLMRequest("gemini", "analysis", "ok", 2*time.Second, 100, 50)
	m.IncLLMRetry("gemini", "analysis")
	m.IncParseOutcome("score_and_gaps", "partial")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	for _, want := range []string{
		`cc_api_requests_total{method="POST",route="/api/analyze",status="200"} 1`,
		`cc_llm_requests_total{kind="analysis",outcome="ok",provider="gemini"} 1`,
		`cc_llm_retries_total{kind="analysis",provider="gemini"} 1`,
		`cc_llm_tokens_total{direction="input",provider="gemini"} 100`,
		`cc_parse_outcomes_total{outcome="partial",shape="score_and_gaps"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
