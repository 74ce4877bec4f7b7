package api

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wefitness/signup/pkg/models"
)

// RegisterValidators adds the "goalid" and "country" binding rules to gin's
// validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("goalid", func(fl validator.FieldLevel) bool {
		_, ok := models.LookupGoal(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("register goalid: %w", err)
	}
	if err := v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		_, ok := models.LookupCountry(fl.Field().String())
		return ok
	}); err != nil {
		return fmt.Errorf("register country: %w", err)
	}
	return nil
}
