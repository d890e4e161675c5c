package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/platform/httpx"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

func TestCompleteSendsResponsesRequest(t *testing.T) {
	var got responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer auth")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-test-2026",
			"output": [
				{"type": "reasoning"},
				{"type": "message", "role": "assistant", "content": [
					{"type": "output_text", "text": "SCORE: 80\n"},
					{"type": "output_text", "text": "GAPS:\n- Go"}
				]}
			],
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := c.Complete(context.Background(), llm.Request{
		Kind:    coaching.KindAnalysis,
		System:  "be strict",
		User:    "resume",
		Options: llm.OptionsFor(coaching.KindAnalysis),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "SCORE: 80\nGAPS:\n- Go" || resp.Model != "gpt-test-2026" || resp.OutputTokens != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.Model != "gpt-test" || got.MaxOutputTokens != 1500 || got.Temperature == nil || *got.Temperature != 0.2 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Input) != 2 || got.Input[0].Role != "system" || got.Input[1].Content != "resume" {
		t.Fatalf("unexpected input: %+v", got.Input)
	}
}

func TestCompleteSurfacesHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Complete(context.Background(), llm.Request{User: "hi"})
	if httpx.StatusCode(err) != http.StatusTooManyRequests {
		t.Fatalf("status=%d err=%v", httpx.StatusCode(err), err)
	}
	var ra llm.RetryAfterer
	he, ok := err.(*openAIHTTPError)
	if !ok {
		t.Fatalf("err type %T", err)
	}
	ra = he
	if ra.RetryAfter() != 3*time.Second {
		t.Fatalf("RetryAfter=%v", ra.RetryAfter())
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
