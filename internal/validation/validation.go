package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

var (
	// Structural check only, no checksum digit verification.
	cnIDPattern     = regexp.MustCompile(`^[1-9]\d{5}(19|20)\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])\d{3}[\dXx]$`)
	cnMobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

var messages = map[string]string{
	"required":     "is required",
	"min":          "is too short or too small",
	"max":          "is too long or too large",
	"gt":           "must be positive",
	"oneof":        "has an unsupported value",
	"cn_id":        "must be an 18-character resident id",
	"cn_mobile":    "must be an 11-digit mobile number",
	"quarter":      "must be one of Q1, Q2, Q3, Q4",
	"relationship": "has an unsupported relationship",
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("cn_id", func(fl validator.FieldLevel) bool {
		return cnIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cn_mobile", func(fl validator.FieldLevel) bool {
		return cnMobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("quarter", func(fl validator.FieldLevel) bool {
		return app.Quarter(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("relationship", func(fl validator.FieldLevel) bool {
		return app.Relationship(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

// Struct validates s and reports failures as a validation error with per-field messages.
func (this *Validator) Struct(s any) errs.Error {
	err := this.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.WrapAppError(err, &errs.ErrorOpts{Kind: errs.KindValidation})
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		fields[fe.Field()] = msg
	}

	return errs.Validation("request validation failed", fields)
}

// std backs Struct for callers without an injected validator.
var std = New()

func Struct(s any) errs.Error {
	return std.Struct(s)
}
