package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"GroupLink/pkg/xerr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	return v
}

// validateRequest 校验失败返回 KindValidation 错误，消息直接展示给调用方
func validateRequest(req interface{}, except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(req, except...)
	} else {
		err = validate.Struct(req)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return xerr.Validation(fmt.Sprintf("参数 %s 校验失败: %s", fe.Field(), fe.Tag()))
	}
	return xerr.Validation(err.Error())
}
