package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Errors     []string    `json:"errors"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
		Success:    true,
		Errors:     []string{},
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    message,
		Success:    true,
		Errors:     []string{},
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}

// HandleError serializes any workflow error into the envelope. Unexpected
// errors become a 500 with the raw message hidden unless debug mode is on.
func HandleError(c *gin.Context, err error, debug bool) {
	appErr := AsAppError(err)

	message := appErr.Message
	if appErr.Code == CodeInternal && debug && appErr.Err != nil {
		message = appErr.Err.Error()
	}

	ErrorResponse(c, appErr.Status, message)
	c.Abort()
}
