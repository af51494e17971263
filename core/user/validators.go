package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/sgpa/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdPolicyTexts = map[string]string{
		pwdMinLenTag:    pwdMinLenText,
		pwdNoSpaceTag:   pwdNoSpaceText,
		pwdNotAllNumTag: pwdNotAllNumText,
		pwdAttrSimTag:   pwdAttrSimText,
	}
)

// InitValidators registers the validators used by user models.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(userStructValidation, NewUser{}, ResetUserPassword{})
	for tag, text := range pwdPolicyTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

// userStructValidation applies the password policy on NewUser and ResetUserPassword structs.
func userStructValidation(sl validator.StructLevel) {
	var pwd string
	var tag string
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		pwd = usr.Password
		tag = passwordPolicyViolation(usr.Password, usr.Name, usr.Email)
	case ResetUserPassword:
		pwd = usr.Password
		tag = passwordPolicyViolation(usr.Password, usr.Email)
	}
	if tag != "" && pwd != "" {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}
}

// CheckPasswordPolicy returns a validation error when pwd breaks the password policy.
func CheckPasswordPolicy(pwd string, attrs ...string) error {
	if tag := passwordPolicyViolation(pwd, attrs...); tag != "" {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: pwdPolicyTexts[tag]})
	}
	return nil
}

// passwordPolicyViolation returns the tag of the first password rule pwd breaks, if any:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no similarity with user attributes
func passwordPolicyViolation(pwd string, attrs ...string) string {
	if len([]rune(pwd)) < pwdMinLen {
		return pwdMinLenTag
	}

	var digitCount, count int
	for _, char := range pwd {
		count++
		if unicode.IsSpace(char) {
			return pwdNoSpaceTag
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == count {
		return pwdNotAllNumTag
	}

	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		attr = strings.ToLower(attr)
		candidates := []string{attr}
		if at := strings.Index(attr, "@"); at > 0 {
			candidates = append(candidates, attr[:at])
		}
		for _, cand := range candidates {
			ratio := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(cand, "")).QuickRatio()
			if ratio >= pwdMaxSim {
				return pwdAttrSimTag
			}
		}
	}
	return ""
}
