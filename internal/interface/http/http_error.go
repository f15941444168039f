package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// HTTPError pairs a response status with the stage code serialized to the
// client.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError builds an HTTPError for failures that originate in the
// transport itself (auth, rate limiting) rather than in the pipeline.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// statusByCode maps pipeline stage codes to response statuses. Upstream
// outages (weather provider, generation backend) answer 502 so callers know
// a retry may succeed.
var statusByCode = map[string]int{
	apperrors.CodeInvalidInput: http.StatusBadRequest,
	apperrors.CodeNotFound:     http.StatusNotFound,
	apperrors.CodeWeather:      http.StatusBadGateway,
	apperrors.CodeGeneration:   http.StatusBadGateway,
	apperrors.CodeConfig:       http.StatusInternalServerError,
	apperrors.CodeReport:       http.StatusInternalServerError,
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &HTTPError{Status: status, Code: appErr.Code, Message: appErr.Error(), Err: err}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// abortWithError records err for the error-handling middleware, which maps
// stage codes to statuses in one place instead of per handler.
func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
