package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzaalmahdi/civitai/pkg/errno"
	"github.com/hamzaalmahdi/civitai/pkg/logger"
)

// Response is the uniform envelope every HTTP endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope with the given payload.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed maps an error to the envelope, deriving the HTTP status from the
// business code. Unclassified errors are logged and reported as internal
// errors without leaking details to the caller.
func Failed(ctx *gin.Context, err error) {
	code, message := classify(ctx, err)
	ctx.JSON(httpStatus(code), Response{Code: code, Message: message})
}

// FailedWithStatus is Failed with an explicit HTTP status override.
func FailedWithStatus(ctx *gin.Context, err error, status int) {
	code, message := classify(ctx, err)
	ctx.JSON(status, Response{Code: code, Message: message})
}

func classify(ctx *gin.Context, err error) (int, string) {
	var biz errno.BizError
	if errors.As(err, &biz) {
		return biz.Code(), biz.Message()
	}
	var en *errno.Errno
	if errors.As(err, &en) {
		return en.Code, en.Message
	}
	logger.WithContext(ctx.Request.Context()).Errorf("internal error surfaced to http, err=%v", err)
	return errno.ErrInternalServer.Code, errno.ErrInternalServer.Message
}

// httpStatus passes client-error codes through and collapses everything
// else to 500; the service's own 5xx codes are not valid HTTP statuses.
func httpStatus(code int) int {
	if code >= 400 && code < 500 {
		return code
	}
	return http.StatusInternalServerError
}
