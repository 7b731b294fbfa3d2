package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-ensemble/internal/core"
)

// Messages returned by the JSON API
const (
	MsgNoText          = "No text provided"
	MsgInvalidModel    = "Invalid model selected"
	MsgInvalidJSON     = "Invalid JSON"
	MsgNoFile          = "No file uploaded"
	MsgFileTooLarge    = "Uploaded file is too large"
	MsgInvalidMethod   = "Invalid request method"
	MsgNotFound        = "Not found"
	MsgInternalError   = "Internal server error"
	MsgInvalidSelectUI = "Invalid model selection"
)

var errNoFile = errors.New(MsgNoFile)

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
}

// MapError maps service errors to an HTTP status and message
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidSelector):
		return http.StatusBadRequest, MsgInvalidModel
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, MsgNoText
	case errors.Is(err, core.ErrInvalidBatchFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrEmptyBatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrRemoteCall):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, ErrChartRender):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}

// HandleServiceError sends the mapped error response and records err on the context
func HandleServiceError(c *gin.Context, err error) {
	status, message := MapError(err)
	_ = c.Error(err)
	respondError(c, status, message)
}

// MethodNotAllowed is installed as the engine's NoMethod handler
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, MsgInvalidMethod)
}

// NotFound is installed as the engine's NoRoute handler
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, MsgNotFound)
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// uiMessage is the text shown in place of a prediction when the form cannot be classified
func uiMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return core.EmptyTextMessage
	case errors.Is(err, core.ErrInvalidSelector):
		return MsgInvalidSelectUI
	default:
		return "Error: " + err.Error()
	}
}
