package response

import (
	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/domain"
)

// RequestIDKey is the gin context key the request id middleware sets.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorBody describes a failure. Field names the offending input, if any.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Page is the listing payload: a page of items plus the cursor to the next one.
type Page[T any] struct {
	Items             []T    `json:"items"`
	TotalCount        int    `json:"totalCount"`
	PageSize          int    `json:"pageSize"`
	ContinuationToken string `json:"continuationToken,omitempty"`
	HasMore           bool   `json:"hasMore"`
}

// NewPage builds the listing payload. TotalCount falls back to the number of
// items on the page when the source does not know the total.
func NewPage[T any](r *domain.PaginatedResult[T]) Page[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	total := len(items)
	if r.TotalCount != nil {
		total = *r.TotalCount
	}
	return Page[T]{
		Items:             items,
		TotalCount:        total,
		PageSize:          r.PageSize,
		ContinuationToken: r.ContinuationToken,
		HasMore:           r.ContinuationToken != "",
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, body *ErrorBody) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     body,
		RequestID: requestID(c),
	})
}
