package handlers

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// businessGroupPattern matches a three character business group code such as "RBS".
var businessGroupPattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("bgroup", validateBusinessGroup)
		}
	})
}

func validateBusinessGroup(fl validator.FieldLevel) bool {
	return businessGroupPattern.MatchString(fl.Field().String())
}
