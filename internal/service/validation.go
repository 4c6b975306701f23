package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	appErrors "github.com/tanishq4141/PROJECT-ALPHA/pkg/errors"
)

// FieldError describes one failed validation rule in client-facing terms.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// NewValidator returns a validator that reports JSON field names and enforces the
// correct-option range on questions.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateQuestion, dto.QuestionInput{})
	return v
}

func validateQuestion(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(dto.QuestionInput)
	if !ok || q.CorrectOption == nil {
		return
	}
	if *q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options) {
		sl.ReportError(*q.CorrectOption, "correctOption", "CorrectOption", "option_range", "")
	}
}

func validationError(err error, message string) *appErrors.Error {
	appErr := appErrors.Validation(err, message)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: trimNamespace(fe.Namespace()), Rule: fe.Tag(), Param: fe.Param()})
		}
		appErr.Details = details
	}
	return appErr
}

// trimNamespace drops the root struct name: "CreateAssignmentRequest.questions[0].options" -> "questions[0].options".
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
