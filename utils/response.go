package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const MessageInternalError = "Internal server error"

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func JSONSuccess(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Envelope{Success: true, Data: data, Message: message})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: false, Data: nil, Message: message})
}

func JSONAbort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Success: false, Data: nil, Message: message})
}

func JSONInternalError(c *gin.Context) {
	JSONError(c, http.StatusInternalServerError, MessageInternalError)
}
