package llm_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

var prompt = prompts.Prompt{Kind: coaching.KindAnalysis, System: "sys", User: "usr"}

func newClient(p llm.Provider) *llm.Client {
	return llm.NewClient(p, logger.Nop(), llm.WithRetryBackoff(time.Millisecond))
}

func TestGenerateSuccess(t *testing.T) {
	p := llmtest.New().Push("analysis", llmtest.Reply{Text: "SCORE: 70"})
	c := newClient(p)

	got, err := c.Generate(context.Background(), coaching.KindAnalysis, prompt)
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 70", got.Text)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "fake", got.Provider)

	require.Len(t, p.Calls, 1)
	assert.Equal(t, llm.OptionsFor(coaching.KindAnalysis), p.Calls[0].Options)
	assert.Equal(t, "sys", p.Calls[0].System)
}

func TestGenerateRetriesTransientOnce(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"server error", &llmtest.StatusError{Code: 503, Msg: "overloaded"}},
		{"request timeout", &llmtest.StatusError{Code: 408, Msg: "slow"}},
		{"connection dropped", io.ErrUnexpectedEOF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := llmtest.New().Push("analysis", llmtest.Reply{Err: tc.err}, llmtest.Reply{Text: "ok"})
			got, err := newClient(p).Generate(context.Background(), coaching.KindAnalysis, prompt)
			require.NoError(t, err)
			assert.Equal(t, 2, got.Attempts)
			assert.Equal(t, 2, p.CallCount("analysis"))
		})
	}

	p := llmtest.New().Push("analysis",
		llmtest.Reply{Err: &llmtest.StatusError{Code: 500}},
		llmtest.Reply{Err: &llmtest.StatusError{Code: 502}},
		llmtest.Reply{Text: "never reached"},
	)
	_, err := newClient(p).Generate(context.Background(), coaching.KindAnalysis, prompt)
	var mu *llm.ModelUnavailableError
	require.True(t, errors.As(err, &mu), "got %v", err)
	assert.Equal(t, llm.ReasonUpstream, mu.Reason)
	assert.Equal(t, 2, p.CallCount("analysis"), "exactly one retry")
}

func TestGenerateDoesNotRetryAuthOrQuota(t *testing.T) {
	cases := []struct {
		name      string
		code      int
		rateLimit bool
		reason    string
	}{
		{"unauthorized", 401, false, llm.ReasonAuth},
		{"forbidden", 403, false, llm.ReasonAuth},
		{"quota", 429, true, ""},
		{"bad request", 400, false, llm.ReasonRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := llmtest.New().Push("chat_turn",
				llmtest.Reply{Err: &llmtest.StatusError{Code: tc.code}},
				llmtest.Reply{Text: "should not be used"},
			)
			_, err := newClient(p).Generate(context.Background(), coaching.KindChatTurn, prompt)
			require.Error(t, err)
			assert.Equal(t, 1, p.CallCount(""))
			if tc.rateLimit {
				var rl *llm.RateLimitError
				assert.True(t, errors.As(err, &rl), "got %v", err)
				return
			}
			var mu *llm.ModelUnavailableError
			require.True(t, errors.As(err, &mu), "got %v", err)
			assert.Equal(t, tc.reason, mu.Reason)
			assert.Equal(t, tc.code, mu.Status)
		})
	}
}

func TestGenerateEmptyOutput(t *testing.T) {
	p := llmtest.New().Push("analysis", llmtest.Reply{Text: "  \n"})
	_, err := newClient(p).Generate(context.Background(), coaching.KindAnalysis, prompt)
	var mu *llm.ModelUnavailableError
	require.True(t, errors.As(err, &mu))
	assert.Equal(t, llm.ReasonEmpty, mu.Reason)
	assert.Equal(t, 1, p.CallCount(""))
}

func TestGenerateTimeoutBoundsBothAttempts(t *testing.T) {
	p := llmtest.New()
	p.Respond = func(req llm.Request) (string, error) {
		return "", &llmtest.StatusError{Code: 502}
	}
	c := llm.NewClient(p, logger.Nop(),
		llm.WithRetryBackoff(time.Second),
		llm.WithOptions(func(coaching.TemplateKind) llm.Options {
			return llm.Options{Timeout: 20 * time.Millisecond}
		}),
	)
	start := time.Now()
	_, err := c.Generate(context.Background(), coaching.KindAnalysis, prompt)
	var mu *llm.ModelUnavailableError
	require.True(t, errors.As(err, &mu), "got %v", err)
	assert.Equal(t, llm.ReasonTimeout, mu.Reason)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, p.CallCount(""))
}

func TestOptionsFor(t *testing.T) {
	o := llm.OptionsFor(coaching.KindLearningPlan)
	assert.Equal(t, 2500, o.MaxTokens)
	assert.Equal(t, 90*time.Second, o.Timeout)
	assert.InDelta(t, 0.7, llm.OptionsFor(coaching.KindChatTurn).Temperature, 1e-9)

	for _, k := range coaching.AllKinds {
		assert.Positive(t, llm.OptionsFor(k).MaxTokens, "%s", k)
	}
	assert.InDelta(t, 0.7, llm.OptionsFor(coaching.KindMotivation).Temperature, 1e-9)
	assert.Equal(t, 700, llm.OptionsFor(coaching.KindMotivation).MaxTokens)
}
