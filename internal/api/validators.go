package api

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	registerOnce    sync.Once
)

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return usernamePattern.MatchString(fl.Field().String())
			})
		}
	})
}
