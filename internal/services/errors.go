package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
)

// AuthError is returned for every login failure. It never says which part of
// the credentials was wrong.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "invalid credentials" }

func (e *AuthError) Unwrap() error { return e.Err }

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSession    = errors.New("no session in request context")
)

func requireSession(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", ErrNoSession)
	}
	return rd, nil
}

func requireAdmin(ctx context.Context) (*ctxutil.RequestData, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin() {
		return nil, apierr.Forbidden()
	}
	return rd, nil
}

func invalid(format string, args ...any) error {
	return apierr.BadRequest(fmt.Errorf(format, args...))
}
