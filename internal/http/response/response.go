package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	RespondMessage(c, status, code, msg)
}

// RespondMessage writes the error envelope with a user-facing message.
func RespondMessage(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
		},
	})
}

// RespondFields is a 400 naming each rejected form field.
func RespondFields(c *gin.Context, code, message string, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
			Fields:  fields,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
