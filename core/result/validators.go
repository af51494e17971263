package result

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sgpa/core"
)

var (
	schemeTag  = "scheme"
	schemeText = "unknown scheme"

	branchTag  = "branch"
	branchText = "unknown branch"
)

// InitValidators registers the validators used by result models.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(schemeTag, schemeValidation)
	core.RegisterCustomTranslation(validate, translator, schemeTag, schemeText)

	_ = validate.RegisterValidation(branchTag, branchValidation)
	core.RegisterCustomTranslation(validate, translator, branchTag, branchText)
}

// schemeValidation accepts a known scheme, by year or label.
func schemeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, s := range Schemes {
		if val == s.Year || val == s.Label {
			return true
		}
	}
	return false
}

func branchValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, b := range Branches {
		if val == b {
			return true
		}
	}
	return false
}
