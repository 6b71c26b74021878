// Package response writes the JSON envelope every endpoint returns.
package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/pkg/logger"
)

type Success struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

type Failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func OK(c *gin.Context, status int, data interface{}, message string) {
	if message == "" {
		message = "Success"
	}
	c.JSON(status, Success{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// Error maps err onto the taxonomy. Internal causes are logged and replaced
// by a generic message.
func Error(c *gin.Context, log *logger.Logger, err error) {
	kind := errs.KindOf(err)
	status := kind.StatusCode()

	message := "Something went wrong"
	if kind != errs.KindInternal {
		var e *errs.Error
		if errors.As(err, &e) {
			message = e.Message
		}
	} else if log != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
	}

	c.AbortWithStatusJSON(status, Failure{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}
