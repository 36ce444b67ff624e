package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/pagination"
)

var log = logging.MustGetLogger("response")

const requestIDHeader = "X-Request-ID"

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains metadata about the response
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// requestID returns the id assigned by the logger middleware, the caller's
// X-Request-ID, or a new one, and echoes it back.
func requestID(c *gin.Context) string {
	id := c.GetString("request_id")
	if id == "" {
		id = c.GetHeader(requestIDHeader)
	}
	if id == "" {
		id = uuid.New().String()
	}
	c.Header(requestIDHeader, id)
	return id
}

func newMeta(c *gin.Context) *Meta {
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID(c),
	}
}

func write(c *gin.Context, statusCode int, body APIResponse) {
	body.Meta = newMeta(c)
	c.JSON(statusCode, body)
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessWithPagination sends a page of results
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: result})
}

// Error maps err onto its status code. Server-side failures are logged with
// the request id so a cashier's report can be traced.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	meta := newMeta(c)
	if appErr.Code >= http.StatusInternalServerError {
		log.Errorf("[%s] %s %s: %v", meta.RequestID, c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
		Meta:    meta,
	})
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	write(c, statusCode, APIResponse{Success: false, Message: message})
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Accepted reports work that was queued rather than done: offline sales and print jobs.
func Accepted(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusAccepted, message, data)
}

func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, message)
}
