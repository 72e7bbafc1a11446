package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta carries pagination metadata alongside list responses
type Meta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// SuccessResponse writes a 200 envelope with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessResponseWithMeta writes a 200 envelope with data and pagination meta
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// SuccessMessageResponse writes a 200 envelope with a message and data
func SuccessMessageResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// CreatedResponse writes a 201 envelope with data
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedMessageResponse writes a 201 envelope with a message and data
func CreatedMessageResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes an error envelope with the given status
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// AppErrorResponse maps an AppError onto the transport
func AppErrorResponse(c *gin.Context, err *AppError) {
	body := gin.H{
		"success": false,
		"error":   err.Message,
	}
	if err.Reason != "" {
		body["code"] = err.Reason
	}
	c.JSON(err.HTTPStatus(), body)
}

// HandleServiceError writes an AppError if err is one, otherwise a generic 500
func HandleServiceError(c *gin.Context, err error, fallback string) {
	if appErr, ok := AsAppError(err); ok {
		AppErrorResponse(c, appErr)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, fallback)
}
