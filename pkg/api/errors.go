package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/boxtower/pkg/errors"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// toResponse hides internal error details from clients.
func toResponse(err error, status int) errorResponse {
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		return errorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	if status == http.StatusGatewayTimeout && code == "" {
		code = errors.ErrCodeTimeout
	}
	return errorResponse{Code: code, Message: errors.UserMessage(err)}
}
