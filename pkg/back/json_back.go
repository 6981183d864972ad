package back

import (
	"errors"
	"net/http"

	"GroupLink/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Result 统一返回入口
func Result(c *gin.Context, data interface{}, err error) {
	ResultMsg(c, "Success", data, err)
}

// ResultMsg 成功时带上自定义提示
func ResultMsg(c *gin.Context, message string, data interface{}, err error) {
	if err == nil {
		SuccessMsg(c, message, data)
		return
	}

	// 判断是否为自定义错误
	var e *xerr.CodeError
	if errors.As(err, &e) {
		Error(c, e.Code, e.Message)
		return
	}

	// 默认为系统错误
	Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
}

// Success 成功返回
func Success(c *gin.Context, data interface{}) {
	SuccessMsg(c, "Success", data)
}

func SuccessMsg(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    xerr.OK,
		Message: message,
		Data:    data,
	})
}

// Error 错误返回
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}
