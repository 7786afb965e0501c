package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/logger"
)

// Envelope is the body of every response.
type Envelope struct {
	Data  interface{}    `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *APIError      `json:"error,omitempty"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func meta(c *gin.Context, extra map[string]any) map[string]any {
	m := map[string]any{"request_id": c.GetString(requestIDKey)}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func respond(c *gin.Context, status int, data interface{}, extra map[string]any) {
	c.JSON(status, Envelope{Data: data, Meta: meta(c, extra)})
}

func ok(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, data, nil)
}

// fail maps err onto a status code. Unknown errors are logged and reported
// as a generic 500.
func fail(c *gin.Context, err error) {
	failWith(c, err, nil)
}

func failWith(c *gin.Context, err error, data interface{}) {
	apiErr := &APIError{Message: err.Error()}
	var verr *errors.ValidationError
	switch {
	case stderrors.As(err, &verr):
		apiErr.Code = http.StatusBadRequest
		apiErr.Field = verr.Field
	case errors.IsNotFound(err):
		apiErr.Code = http.StatusNotFound
	case errors.IsConflict(err):
		apiErr.Code = http.StatusConflict
	case stderrors.Is(err, errors.ErrNotFeasible):
		apiErr.Code = http.StatusUnprocessableEntity
	default:
		logger.Error("Request failed", "request_id", c.GetString(requestIDKey), "error", err)
		apiErr.Code = http.StatusInternalServerError
		apiErr.Message = "internal server error"
	}
	c.AbortWithStatusJSON(apiErr.Code, Envelope{Data: data, Meta: meta(c, nil), Error: apiErr})
}

// badRequest reports a malformed body or query string.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Meta:  meta(c, nil),
		Error: &APIError{Code: http.StatusBadRequest, Message: msg},
	})
}
