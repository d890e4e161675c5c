package response

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/interpret"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/docextract"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

const (
	msgExtraction  = "could not read the uploaded document, please re-upload it as PDF, DOCX or plain text"
	msgUnavailable = "the coaching model is unavailable right now, please try again in a minute"
	msgRateLimited = "too many requests to the coaching model, please try again shortly"
	msgParse       = "the coaching model returned an answer we could not read, please try again"
	msgStore       = "operation did not complete, please try again"
)

// RespondServiceError writes the error envelope for anything a service returned.
// Only store failures and unknown errors are logged at error level.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	status, code, msg := classify(err)
	if status == http.StatusTooManyRequests {
		var rl *llm.RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		}
	}
	if log != nil {
		switch {
		case status >= 500 && status != http.StatusServiceUnavailable && status != http.StatusBadGateway:
			log.Error("request failed", "path", c.FullPath(), "status", status, "code", code, "error", err)
		case status >= 500:
			log.Warn("request failed", "path", c.FullPath(), "status", status, "code", code, "error", err)
		default:
			log.Debug("request rejected", "path", c.FullPath(), "status", status, "code", code, "error", err)
		}
	}
	RespondError(c, status, code, errors.New(msg))
}

func classify(err error) (int, string, string) {
	var (
		ae   *apierr.Error
		ee   *docextract.ExtractionError
		mu   *llm.ModelUnavailableError
		rl   *llm.RateLimitError
		pe   *interpret.ParseError
		auth *services.AuthError
		se   *repos.StoreError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "unknown error"
	case errors.As(err, &ae):
		msg := ae.Error()
		if ae.Status >= 500 {
			msg = msgStore
		}
		return ae.Status, ae.Code, msg
	case errors.As(err, &ee):
		return http.StatusUnprocessableEntity, "extraction_failed", msgExtraction
	case errors.As(err, &rl):
		return http.StatusTooManyRequests, "rate_limited", msgRateLimited
	case errors.As(err, &mu):
		return http.StatusServiceUnavailable, "model_unavailable", msgUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "model_unavailable", msgUnavailable
	case errors.As(err, &pe):
		return http.StatusBadGateway, "parse_failed", msgParse
	case errors.As(err, &auth):
		return http.StatusUnauthorized, "invalid_credentials", auth.Error()
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized", "missing or invalid token"
	case errors.Is(err, repos.ErrReferentialIntegrity):
		return http.StatusConflict, "no_analysis", "analyze a résumé for this role first"
	case errors.Is(err, repos.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, repos.ErrConflict):
		return http.StatusConflict, "conflict", "already exists"
	case errors.As(err, &se):
		return http.StatusInternalServerError, "store_failed", msgStore
	case errors.Is(err, context.Canceled):
		return 499, "canceled", "request canceled"
	}
	return http.StatusInternalServerError, "internal", "internal error"
}
