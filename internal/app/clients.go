package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/careercoach-backend/internal/platform/gemini"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/platform/objectstore"
	"github.com/yungbote/careercoach-backend/internal/platform/openai"
	"github.com/yungbote/careercoach-backend/internal/platform/sessionstore"
)

type Clients struct {
	Model       llm.Provider
	Resumes     objectstore.Store
	Revocations sessionstore.Revocations
	closers     []func() error
}

func (c Clients) Close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}

// BootstrapError names the client that could not be built and the setting
// that selected it.
type BootstrapError struct {
	Client string
	Mode   string
	Cause  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("%s bootstrap failed (mode=%q): %v", e.Client, e.Mode, e.Cause)
}

func (e *BootstrapError) Unwrap() error { return e.Cause }

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	model, err := resolveModelProvider(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	out.Model = model

	resumes, err := resolveResumeStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	out.Resumes = resumes

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rev, err := sessionstore.NewRedisRevocations(log, sessionstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return Clients{}, &BootstrapError{Client: "token revocations", Mode: "redis", Cause: err}
		}
		out.Revocations = rev
		if c, ok := rev.(interface{ Close() error }); ok {
			out.closers = append(out.closers, c.Close)
		}
	} else {
		log.Warn("REDIS_ADDR not set, token revocations are kept in memory")
		out.Revocations = sessionstore.NewMemoryRevocations()
	}
	return out, nil
}

func resolveModelProvider(ctx context.Context, log *logger.Logger, cfg Config) (llm.Provider, error) {
	switch cfg.ModelProvider {
	case "openai":
		c, err := openai.NewClient(log, openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, &BootstrapError{Client: "model provider", Mode: cfg.ModelProvider, Cause: err}
		}
		return c, nil
	case "gemini":
		c, err := gemini.NewClient(ctx, log, gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, &BootstrapError{Client: "model provider", Mode: cfg.ModelProvider, Cause: err}
		}
		return c, nil
	}
	return nil, &BootstrapError{
		Client: "model provider",
		Mode:   cfg.ModelProvider,
		Cause:  fmt.Errorf("unsupported MODEL_PROVIDER %q (want openai or gemini)", cfg.ModelProvider),
	}
}

func resolveResumeStore(ctx context.Context, log *logger.Logger, cfg Config) (objectstore.Store, error) {
	switch cfg.ResumeStore {
	case "", objectstore.ModeLocal:
		s, err := objectstore.NewLocalStore(log, cfg.ResumeDir)
		if err != nil {
			return nil, &BootstrapError{Client: "resume store", Mode: objectstore.ModeLocal, Cause: err}
		}
		return s, nil
	case objectstore.ModeS3:
		s, err := objectstore.NewS3Store(ctx, log, objectstore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, &BootstrapError{Client: "resume store", Mode: objectstore.ModeS3, Cause: err}
		}
		return s, nil
	}
	return nil, &BootstrapError{
		Client: "resume store",
		Mode:   cfg.ResumeStore,
		Cause:  fmt.Errorf("unsupported RESUME_STORE %q (want local or s3)", cfg.ResumeStore),
	}
}
