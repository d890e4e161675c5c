// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/careercoach-backend/internal/platform/llm"
)

// StatusError is a provider error with an HTTP status.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string       { return fmt.Sprintf("http %d: %s", e.Code, e.Msg) }
func (e *StatusError) HTTPStatusCode() int { return e.Code }

type Reply struct {
	Text string
	Err  error
}

// Provider answers calls from per-kind queues first, then from Respond, then
// from Default. It records every request it sees.
type Provider struct {
	mu      sync.Mutex
	queues  map[string][]Reply
	Respond func(req llm.Request) (string, error)
	Default Reply
	Calls   []llm.Request
}

func New() *Provider {
	return &Provider{queues: map[string][]Reply{}}
}

func (p *Provider) Name() string  { return "fake" }
func (p *Provider) Model() string { return "fake-model" }

// Push queues replies for a kind, served in order.
func (p *Provider) Push(kind string, replies ...Reply) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queues[kind] = append(p.queues[kind], replies...)
	return p
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, req)
	kind := string(req.Kind)
	var r *Reply
	if q := p.queues[kind]; len(q) > 0 {
		r = &q[0]
		p.queues[kind] = q[1:]
	}
	respond := p.Respond
	def := p.Default
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	switch {
	case r != nil:
		return llm.Response{Text: r.Text, Model: "fake-model"}, r.Err
	case respond != nil:
		text, err := respond(req)
		return llm.Response{Text: text, Model: "fake-model"}, err
	}
	return llm.Response{Text: def.Text, Model: "fake-model"}, def.Err
}

// CallCount returns how many calls were made for kind, or all calls when kind is empty.
func (p *Provider) CallCount(kind string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind == "" {
		return len(p.Calls)
	}
	n := 0
	for _, c := range p.Calls {
		if strings.EqualFold(string(c.Kind), kind) {
			n++
		}
	}
	return n
}
