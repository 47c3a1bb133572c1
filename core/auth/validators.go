package auth

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/diplomasi/admin/core"
)

var (
	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password is too similar to your name or email"
)

// InitValidators registers the password rules of the auth forms.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(passwordStructValidation, SignupData{})
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func passwordStructValidation(sl validator.StructLevel) {
	if sd, ok := sl.Current().Interface().(SignupData); ok {
		if tooSimilar(sd.Password, sd.Name, sd.Email) {
			sl.ReportError(sd.Password, "password", "Password", pwdAttrSimTag, "")
		}
	}
}

// tooSimilar reports whether pwd is close to one of the account attributes.
// The local part of emails is compared as well.
func tooSimilar(pwd string, attrs ...string) bool {
	if pwd == "" {
		return false
	}
	ratio := func(attr string) float64 {
		if attr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pwd), ""), strings.Split(strings.ToLower(attr), "")).QuickRatio()
	}
	for _, attr := range attrs {
		if ratio(attr) >= pwdMaxSim {
			return true
		}
		if i := strings.Index(attr, "@"); i > 0 && ratio(attr[:i]) >= pwdMaxSim {
			return true
		}
	}
	return false
}
