package api

import (
	"alcyxob/training-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the envelope of every error answered by the API.
type ErrorResponse struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
}

// HTTPError pins an error to a status code, for failures detected in the HTTP layer itself.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func badRequest(err error) error {
	return &HTTPError{Status: http.StatusBadRequest, Err: err}
}

// Messages shown to clients in production. They never tell an unknown user from a wrong password.
var productionMessages = map[int]string{
	http.StatusBadRequest:      "Invalid information.",
	http.StatusUnauthorized:    "You do not have a user account or entered invalid login credentials.",
	http.StatusForbidden:       "You are not authorized to view this information.",
	http.StatusNotFound:        "The requested resource was not found.",
	http.StatusConflict:        "Username already taken.",
	http.StatusTooManyRequests: "Too many requests, try again later.",
	http.StatusNotImplemented:  "This feature is not available.",
}

const defaultProductionMessage = "An unexpected condition was encountered."

func statusFor(err error) int {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(status int, err error, production bool) ErrorResponse {
	message := err.Error()
	if production {
		var ok bool
		if message, ok = productionMessages[status]; !ok {
			message = defaultProductionMessage
		}
	}
	return ErrorResponse{
		StatusCode:    status,
		StatusMessage: http.StatusText(status),
		Message:       message,
	}
}

// ErrorResponder answers the last error a handler attached with c.Error. The full error is logged;
// clients in production only get the canned message for its status.
func ErrorResponder(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := statusFor(err)
		entry := log.WithFields(log.Fields{
			"request_id": c.GetString(ContextRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
		})
		if status >= http.StatusInternalServerError {
			entry.Errorf("request failed: %s", err)
		} else {
			entry.Warnf("request rejected: %s", err)
		}

		c.JSON(status, newErrorResponse(status, err, production))
	}
}

// fail attaches err for ErrorResponder and stops the handler chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
