package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:          http.StatusBadRequest,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindNotAvailable:        http.StatusNotFound,
	domain.KindDuplicateSubmission: http.StatusConflict,
	domain.KindStorageWrite:        http.StatusBadGateway,
	domain.KindRecordCommit:        http.StatusInternalServerError,
	domain.KindAggregation:         http.StatusServiceUnavailable,
	domain.KindUnauthorized:        http.StatusUnauthorized,
	domain.KindForbidden:           http.StatusForbidden,
	domain.KindInternal:            http.StatusInternalServerError,
}

// serverMessages replaces the detail of server-side failures; the wrapped cause is only logged.
var serverMessages = map[domain.ErrorKind]string{
	domain.KindStorageWrite: "object storage unavailable",
	domain.KindRecordCommit: "record store commit failed",
	domain.KindAggregation:  "leaderboard unavailable",
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	if status, ok := kindStatus[domain.Kind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server-side failures are logged and their detail hidden.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	kind := domain.Kind(err)
	status := StatusFor(err)
	apiErr := APIError{Code: string(kind), Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		apiErr.Field = verr.Field
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "kind", kind, "error", err)
		apiErr.Message = "internal error"
		if msg, ok := serverMessages[kind]; ok {
			apiErr.Message = msg
		}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
