package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yoockh/jobportal/internal/models"
)

var postalCode = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9 -]{1,8})[A-Za-z0-9]$`)

// RegisterValidators adds the domain rules to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	rules := map[string]validator.Func{
		"postal_code":   func(fl validator.FieldLevel) bool { return postalCode.MatchString(fl.Field().String()) },
		"seniority":     oneOf(models.SeniorityLevels),
		"search_status": oneOf(models.SearchStatuses),
		"salary_period": oneOf(models.SalaryPeriods),
		"proficiency":   oneOf(models.Proficiencies),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return models.OneOf(fl.Field().String(), allowed)
	}
}
