package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/httpx"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type Request struct {
	Kind    coaching.TemplateKind
	System  string
	User    string
	Options Options
}

type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider performs exactly one model call. Errors should carry the HTTP status
// (httpx.HTTPStatusCoder) when there is one.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (Response, error)
}

type Completion struct {
	Text     string        `json:"text"`
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Latency  time.Duration `json:"latency"`
	Attempts int           `json:"attempts"`
}

// Generator is what services depend on.
type Generator interface {
	Generate(ctx context.Context, kind coaching.TemplateKind, p prompts.Prompt) (Completion, error)
	Provider() string
	Model() string
}

const DefaultRetryBackoff = 750 * time.Millisecond

type Client struct {
	log      *logger.Logger
	provider Provider
	backoff  time.Duration
	options  func(coaching.TemplateKind) Options
	sleep    func(ctx context.Context, d time.Duration) error
}

type ClientOption func(*Client)

func WithRetryBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithOptions overrides the per-kind option table.
func WithOptions(f func(coaching.TemplateKind) Options) ClientOption {
	return func(c *Client) {
		if f != nil {
			c.options = f
		}
	}
}

func NewClient(p Provider, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		log:      log.With("service", "ModelClient", "provider", p.Name()),
		provider: p,
		backoff:  DefaultRetryBackoff,
		options:  OptionsFor,
		sleep:    httpx.Sleep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Provider() string { return c.provider.Name() }

func (c *Client) Model() string { return c.provider.Model() }

// Generate sends one prompt. A transient network failure is retried exactly
// once after a jittered backoff; auth, quota and other rejections are not.
func (c *Client) Generate(ctx context.Context, kind coaching.TemplateKind, p prompts.Prompt) (Completion, error) {
	opts := c.options(kind)
	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	req := Request{Kind: kind, System: p.System, User: p.User, Options: opts}

	start := time.Now()
	const maxAttempts = 2
	var (
		resp    Response
		err     error
		attempt int
	)
	for attempt = 1; attempt <= maxAttempts; attempt++ {
		resp, err = c.provider.Complete(callCtx, req)
		if err == nil {
			break
		}
		if attempt == maxAttempts || !httpx.IsTransientError(err) {
			break
		}
		wait := httpx.JitterSleep(c.backoff)
		if ra := retryAfter(err); ra > 0 && ra < 10*time.Second {
			wait = ra
		}
		c.log.Warn("model call retrying",
			"kind", string(kind),
			"attempt", attempt,
			"sleep", wait.String(),
			"error", err.Error(),
		)
		observability.Current().IncLLMRetry(c.provider.Name(), string(kind))
		if sleepErr := c.sleep(callCtx, wait); sleepErr != nil {
			err = sleepErr
			break
		}
	}
	latency := time.Since(start)

	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = ErrEmptyOutput
	}
	if err != nil {
		cerr := c.classify(ctx, callCtx, err)
		observability.Current().ObserveLLMRequest(c.provider.Name(), string(kind), outcomeOf(cerr), latency, 0, 0)
		c.log.Warn("model call failed",
			"kind", string(kind),
			"attempts", attempt,
			"latency_ms", latency.Milliseconds(),
			"error", cerr.Error(),
		)
		return Completion{}, cerr
	}

	model := resp.Model
	if model == "" {
		model = c.provider.Model()
	}
	observability.Current().ObserveLLMRequest(c.provider.Name(), string(kind), "ok", latency, resp.InputTokens, resp.OutputTokens)
	c.log.Debug("model call ok",
		"kind", string(kind),
		"model", model,
		"attempts", attempt,
		"latency_ms", latency.Milliseconds(),
	)
	return Completion{
		Text:     resp.Text,
		Provider: c.provider.Name(),
		Model:    model,
		Latency:  latency,
		Attempts: attempt,
	}, nil
}

func (c *Client) classify(parent, callCtx context.Context, err error) error {
	var rl *RateLimitError
	var mu *ModelUnavailableError
	if errors.As(err, &rl) || errors.As(err, &mu) {
		return err
	}
	name := c.provider.Name()
	if errors.Is(err, ErrEmptyOutput) {
		return &ModelUnavailableError{Provider: name, Reason: ReasonEmpty, Err: err}
	}
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &ModelUnavailableError{Provider: name, Reason: ReasonTimeout, Err: err}
	}
	status := httpx.StatusCode(err)
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Provider: name, RetryAfter: retryAfter(err), Err: err}
	case httpx.IsAuthStatus(status):
		return &ModelUnavailableError{Provider: name, Reason: ReasonAuth, Status: status, Err: err}
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		return &ModelUnavailableError{Provider: name, Reason: ReasonRejected, Status: status, Err: err}
	case status > 0:
		return &ModelUnavailableError{Provider: name, Reason: ReasonUpstream, Status: status, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &ModelUnavailableError{Provider: name, Reason: ReasonTimeout, Err: err}
	}
	return &ModelUnavailableError{Provider: name, Reason: ReasonNetwork, Err: err}
}

func outcomeOf(err error) string {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return "rate_limited"
	}
	var mu *ModelUnavailableError
	if errors.As(err, &mu) {
		return mu.Reason
	}
	return "error"
}
