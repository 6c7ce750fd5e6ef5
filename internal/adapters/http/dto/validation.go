package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const jsonTagParts = 2

// Messages used when the payload cannot be decoded at all.
const (
	malformedBodyMessage  = "request body must be valid JSON"
	malformedQueryMessage = "query parameters are malformed"
)

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "" {
				tag = fld.Tag.Get("form")
			}

			name := strings.SplitN(tag, ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("uuid", validateUUID)
		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})

	return validate
}

// Validate validates a struct using the validator instance.
// Rule failures are returned as a *domain.ValidationError carrying one
// message per field, which the error middleware renders as a 400.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return domain.NewValidationErrors(ValidationMessages(fieldErrs))
	}

	// InvalidValidationError: the caller passed something that is not a struct.
	return fmt.Errorf("validate %T: %w", v, err)
}

// BindAndValidate binds the JSON body to v and validates it.
// The body is read through gin's body cache so it stays available for
// diagnostics after binding.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindBodyWith(v, binding.JSON); err != nil {
		return bindingError(err, malformedBodyMessage)
	}

	return ValidateAll(v)
}

// BindQueryAndValidate binds query parameters and validates.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return bindingError(err, malformedQueryMessage)
	}

	return Validate(v)
}

// bindingError converts a decode failure into a caller-facing validation error.
func bindingError(err error, fallback string) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationErrors([]string{
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
		})
	}

	return domain.NewValidationErrors([]string{fallback})
}

// ValidationMessages renders validator failures as "<field> <message>" in
// struct order. Nested fields keep their path, e.g. "items[0].quantity".
func ValidationMessages(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fieldPath(fe)+" "+validationMessage(fe))
	}

	return messages
}

// fieldPath strips the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}

	return fe.Field()
}

// validationMessages maps validation tags to message templates.
// Use {param} as placeholder for the validation parameter.
var validationMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"uuid":     "must be a valid UUID",
	"notblank": "must not be blank",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	"gt":       "must be greater than {param}",
	"lt":       "must be less than {param}",
	"oneof":    "must be one of: {param}",
	"dive":     "is invalid",
}

// validationMessage returns a human-readable message for a validation error.
func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	if tag == "min" || tag == "max" {
		return minMaxMessage(tag, param, fe.Kind())
	}

	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "failed validation: " + tag
}

// minMaxMessage words min/max by kind: characters for strings, items for
// collections, plain values otherwise. A bound of 1 takes the singular.
func minMaxMessage(tag, param string, kind reflect.Kind) string {
	unit := ""

	switch kind { //nolint:exhaustive // only sized kinds need a unit
	case reflect.String:
		unit = "character"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = "item"
	}

	bound := param
	if unit != "" {
		if param != "1" {
			unit += "s"
		}

		bound += " " + unit
	}

	if tag == "min" {
		return "must be at least " + bound
	}

	return "must be at most " + bound
}

// validateUUID validates that a string is a valid UUID.
func validateUUID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Empty is ok, use 'required' tag if needed
	}

	_, err := uuid.Parse(value)

	return err == nil
}

// validateNotBlank validates that a string is not empty after trimming whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validatable is implemented by requests with rules beyond struct tags.
// Validate should return a domain error.
type Validatable interface {
	Validate() error
}

// ValidateAll validates struct tags and then calls Validate() if implemented.
func ValidateAll(v any) error {
	if err := Validate(v); err != nil {
		return err
	}

	if validatable, ok := v.(Validatable); ok {
		return validatable.Validate()
	}

	return nil
}
