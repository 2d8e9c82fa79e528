package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/Bigstool/group-management-system/pkg/response"
)

var (
	trans     ut.Translator
	transOnce sync.Once
	transErr  error
)

// InitTrans 为 gin 的 validator 注册中文翻译，并以 json tag 作为字段名
func InitTrans() error {
	transOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			transErr = fmt.Errorf("binding 引擎不是 validator.Validate")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		uni := ut.New(en.New(), zh.New())
		trans, _ = uni.GetTranslator("zh")
		transErr = zh_translations.RegisterDefaultTranslations(v, trans)
	})
	return transErr
}

// bindError 参数校验失败统一返回 10001，可翻译时附带字段级详情
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if trans != nil && errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", removeTopStruct(verrs.Translate(trans)))
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}

// removeTopStruct 去掉字段名中的结构体前缀，如 CreateGroupRequest.name → name
func removeTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, msg := range fields {
		res[field[strings.Index(field, ".")+1:]] = msg
	}
	return res
}
