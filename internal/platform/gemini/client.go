package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string
}

// Client is an llm.Provider backed by the Gemini API.
type Client struct {
	log   *logger.Logger
	api   *genai.Client
	model string
}

var _ llm.Provider = (*Client)(nil)

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	api, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{
		log:   log.With("service", "GeminiClient"),
		api:   api,
		model: model,
	}, nil
}

func (c *Client) Name() string  { return "gemini" }
func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, r llm.Request) (llm.Response, error) {
	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(r.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(r.System, genai.RoleUser)
	}
	if r.Options.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(r.Options.Temperature))
	}
	if r.Options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(r.Options.MaxTokens)
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(r.User), cfg)
	if err != nil {
		return llm.Response{}, toProviderError(err)
	}
	out := llm.Response{Text: resp.Text(), Model: c.model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount)
	}
	return out, nil
}

// apiError carries the Gemini status so llm.Client can classify it.
type apiError struct {
	Code    int
	Status  string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("gemini http %d %s: %s", e.Code, e.Status, e.Message)
}

func (e *apiError) HTTPStatusCode() int { return e.Code }

func toProviderError(err error) error {
	var ae genai.APIError
	if errors.As(err, &ae) {
		return &apiError{Code: ae.Code, Status: ae.Status, Message: ae.Message}
	}
	var aep *genai.APIError
	if errors.As(err, &aep) && aep != nil {
		return &apiError{Code: aep.Code, Status: aep.Status, Message: aep.Message}
	}
	return err
}
