package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Field limits shared by request DTOs
const (
	PasswordMaxLength = 72
	NameMaxLength     = 100
	NicknameMaxLength = 50
	TitleMaxLength    = 200
	TagNameMaxLength  = 50
)

var registerOnce sync.Once

// RegisterCustomValidations installs the project's tags on gin's validator.
// Safe to call more than once.
func RegisterCustomValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", NotBlank)

		// Report JSON field names instead of Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// NotBlank fails strings that are empty after trimming whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		elem := field.Elem()
		if elem.Kind() == reflect.String {
			return strings.TrimSpace(elem.String()) != ""
		}
		return true
	default:
		return true
	}
}
