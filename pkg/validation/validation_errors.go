package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyUpdate is the message for an update payload with no recognized field.
const ErrEmptyUpdate = "At least one field must be provided"

// FieldLabels maps wire field names to the labels used in messages.
var FieldLabels = map[string]string{
	"name":              "Name",
	"email":             "Email",
	"phone":             "Phone",
	"position":          "Position",
	"status":            "Status",
	"interviewStage":    "Interview stage",
	"applicationDate":   "Application date",
	"expectedSalary":    "Expected salary",
	"yearsOfExperience": "Years of experience",
	"notes":             "Notes",
	"pageSize":          "pageSize",
	"sortBy":            "sortBy",
	"sortDirection":     "sortDirection",
}

// ValidateCreate checks a create payload and returns the first failure as
// an *apperror.ValidationError.
func ValidateCreate(v *validator.Validate, req *domain.CreateCandidateRequest) error {
	if req == nil {
		return apperror.NewValidation("Request body is required", "")
	}
	return FirstError(v.Struct(req))
}

// ValidateUpdate checks a partial update payload. Every field is optional
// but at least one must be present.
func ValidateUpdate(v *validator.Validate, req *domain.UpdateCandidateRequest) error {
	if req == nil || req.IsEmpty() {
		return apperror.NewValidation(ErrEmptyUpdate, "")
	}
	return FirstError(v.Struct(req))
}

// FirstError converts a validator error into a ValidationError naming the
// first offending field in declaration order. Other errors pass through.
func FirstError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	e := validationErrors[0]
	return apperror.NewValidation(formatSingleError(e), fieldPath(e))
}

// FromDecodeError converts a JSON/query decoding failure into a
// ValidationError, keeping the field name when the decoder reports one.
func FromDecodeError(err error) error {
	if err == nil {
		return nil
	}
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperror.NewValidation("Request body is required", "")
	case errors.Is(err, domain.ErrInvalidDateInput):
		return apperror.NewValidation(invalidDateMessage, "applicationDate")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		return apperror.NewValidation(
			fmt.Sprintf("%s must be %s", getFieldLabel(lastSegment(field)), describeKind(typeErr.Type.Kind())),
			field,
		)
	case errors.As(err, &syntaxErr):
		return apperror.NewValidation("Malformed JSON body", "")
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return FirstError(err)
	}
	return apperror.NewValidation("Invalid request: "+err.Error(), "")
}

const invalidDateMessage = "Application date must be an ISO-8601 datetime"

// fieldPath returns the dotted path of the field without the root struct.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	label := getFieldLabel(field)
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", label)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be less than %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "gt":
		if param == "0" {
			return fmt.Sprintf("%s must be positive", label)
		}
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "gte":
		if param == "0" {
			return fmt.Sprintf("%s cannot be negative", label)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "candidate_status":
		return fmt.Sprintf("%s must be one of: %s", label, joinStatuses())
	case "interview_stage":
		return fmt.Sprintf("%s must be one of: %s", label, joinStages())
	case "iso_date":
		return invalidDateMessage
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func describeKind(k reflect.Kind) string {
	switch k {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid " + k.String()
	}
}

func joinStatuses() string {
	out := make([]string, len(domain.AllCandidateStatuses))
	for i, s := range domain.AllCandidateStatuses {
		out[i] = string(s)
	}
	return strings.Join(out, ", ")
}

func joinStages() string {
	out := make([]string, len(domain.AllInterviewStages))
	for i, s := range domain.AllInterviewStages {
		out[i] = string(s)
	}
	return strings.Join(out, ", ")
}
