package handler

import (
	"errors"
	"net/http"

	"datefinder/backend/internal/metrics"
	"datefinder/backend/internal/relationship"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// ResultResponse is the body of every relationship operation that completed.
// Rejected results carry a reason code and no data.
type ResultResponse[T any] struct {
	Result  string `json:"result" example:"accepted"`
	Reason  string `json:"reason,omitempty" example:"blocked"`
	Message string `json:"message,omitempty" example:"The recipient has blocked you."`
	Data    *T     `json:"data,omitempty"`
}

// statusFor maps relationship failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, relationship.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, relationship.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, relationship.ErrInvalidState), errors.Is(err, relationship.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	metrics.ObserveOutcome(operation, "error", http.StatusText(status))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error("request failed", "operation", operation, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondResult writes res with its payload converted by render.
func respondResult[T, R any](c *gin.Context, operation string, res relationship.Result[T], render func(T) R) {
	metrics.ObserveOutcome(operation, string(res.Kind), string(res.Reason))
	if !res.Accepted() {
		c.JSON(http.StatusOK, ResultResponse[R]{
			Result:  string(res.Kind),
			Reason:  string(res.Reason),
			Message: res.Reason.Message(),
		})
		return
	}
	data := render(res.Payload)
	c.JSON(http.StatusOK, ResultResponse[R]{Result: string(res.Kind), Data: &data})
}
