package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the wire shape of every non-2xx response. Internal detail never
// reaches the client; it goes to the logs keyed by request ID.
type Err struct {
	StatusCode int    `json:"status_code"`
	ErrorMsg   string `json:"error"`

	internal error
}

func (e *Err) Error() string {
	return fmt.Sprintf("%v - %v", e.StatusCode, e.ErrorMsg)
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.internal != nil {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Int("status_code", err.StatusCode),
			zap.Error(err.internal),
		)
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v not found for %v %v", resource, key, value),
	}
}

func ErrUnauthorized(msg string) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   msg,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   "wrong credentials",
		internal:   err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorMsg:   "permission denied",
		internal:   err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorMsg:   "internal server error",
		internal:   err,
	}
}
