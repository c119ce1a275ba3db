package errno

import "fmt"

// Errno 定义业务错误码。
type Errno struct {
	Code    int
	Message string
}

// Error 实现 error 接口。
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized     = &Errno{Code: 401, Message: "Unauthorized"}
	ErrNotFound         = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}
)

// BizError 携带错误码的业务错误，restapi 据此渲染响应体。
type BizError interface {
	error
	Code() int
	Message() string
}

type simpleBizError struct {
	errno *Errno
	cause error
	args  []interface{}
}

// NewSimpleBizError 用基础错误码包一层业务错误。cause 保留原始错误，
// args 追加到响应消息里（通常是出错的参数名）。
func NewSimpleBizError(errno *Errno, cause error, args ...interface{}) BizError {
	return &simpleBizError{errno: errno, cause: cause, args: args}
}

func (e *simpleBizError) Code() int {
	return e.errno.Code
}

func (e *simpleBizError) Message() string {
	if len(e.args) == 0 {
		return e.errno.Message
	}
	return e.errno.Message + " " + fmt.Sprint(e.args...)
}

func (e *simpleBizError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.cause)
	}
	return e.Message()
}

func (e *simpleBizError) Unwrap() error {
	return e.cause
}
