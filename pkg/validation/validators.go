package validation

import (
	"reflect"
	"strings"

	"candidate-tracking-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// New returns a validator configured for the candidate payloads: field
// errors are reported under their JSON names and the custom rules below are
// registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators and field naming on v.
// It is also applied to gin's binding engine so query errors read the same.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(wireName)
	v.RegisterCustomTypeFunc(dateInputValue, domain.DateInput{})
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("candidate_status", CandidateStatus)
	_ = v.RegisterValidation("interview_stage", InterviewStage)
	_ = v.RegisterValidation("iso_date", ISODate)
}

// wireName resolves the name a client used for a field: the json tag, else
// the form tag, else the Go name.
func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func dateInputValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(domain.DateInput); ok {
		return d.String()
	}
	return nil
}

// NotBlank rejects strings made only of whitespace. Pair it with required
// to also reject absent values.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func CandidateStatus(fl validator.FieldLevel) bool {
	return domain.CandidateStatus(fl.Field().String()).Valid()
}

func InterviewStage(fl validator.FieldLevel) bool {
	return domain.InterviewStage(fl.Field().String()).Valid()
}

// ISODate accepts RFC 3339 datetimes and YYYY-MM-DD dates.
func ISODate(fl validator.FieldLevel) bool {
	_, err := domain.ParseISODate(fl.Field().String())
	return err == nil
}
