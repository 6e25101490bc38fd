package response

import (
	"carequeue/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a scheduler error to its HTTP status and stable kind.
func RespondError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	c.JSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    apperrors.MessageOf(err),
		ErrorKind:  string(apperrors.KindOf(err)),
	})
}

// RespondSuccess is shorthand for a 2xx envelope.
func RespondSuccess(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}
