package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"katalog/internal/models"
)

// FieldError is a single validation failure. Location addresses the
// offending field as a path of keys and indices, e.g.
// ["specification", "color"] or ["products", 1, "price"].
type FieldError struct {
	Type     string        `json:"type"`
	Location []interface{} `json:"loc"`
	Message  string        `json:"msg"`
}

// Validator validates product payloads and reports every violated field in
// one pass.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the category and color membership checks
// registered. Field names in error locations come from the json tags.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Panics from RegisterValidation only happen for an empty tag name.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, c := range models.ValidCategories {
			if value == c {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		value := strings.ToLower(fl.Field().String())
		for _, c := range models.ValidColors {
			if value == c {
				return true
			}
		}
		return false
	})

	return &Validator{validate: v}
}

// ValidateProduct checks a single product body against the full schema.
// A nil return means the product is valid.
func (v *Validator) ValidateProduct(product *models.Product) []FieldError {
	return v.translate(v.validate.Struct(product))
}

// ValidateBulk checks a bulk wrapper, validating every element and
// aggregating the errors of all of them. Element errors are prefixed with
// "products" and the element index.
func (v *Validator) ValidateBulk(bulk *models.BulkProducts) []FieldError {
	return v.translate(v.validate.Struct(bulk))
}

// MissingParam reports a required query parameter that was not supplied.
func MissingParam(name string) []FieldError {
	return []FieldError{{
		Type:     "missing",
		Location: []interface{}{name},
		Message:  "Field required",
	}}
}

func (v *Validator) translate(err error) []FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError should not happen for our struct inputs.
		return []FieldError{{Type: "value_error", Location: []interface{}{}, Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Type:     errorType(fe),
			Location: locationPath(fe.Namespace()),
			Message:  errorMessage(fe),
		})
	}
	return out
}

// locationPath converts a validator namespace such as
// "BulkProducts.products[1].specification.color" into
// ["products", 1, "specification", "color"]. The leading struct name is
// dropped.
func locationPath(namespace string) []interface{} {
	segments := strings.Split(namespace, ".")
	path := make([]interface{}, 0, len(segments))
	for _, segment := range segments[1:] {
		for segment != "" {
			open := strings.IndexByte(segment, '[')
			if open == -1 {
				path = append(path, segment)
				break
			}
			if open > 0 {
				path = append(path, segment[:open])
			}
			closing := strings.IndexByte(segment, ']')
			index, err := strconv.Atoi(segment[open+1 : closing])
			if err == nil {
				path = append(path, index)
			}
			segment = segment[closing+1:]
		}
	}
	return path
}

func errorType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "min":
		if fe.Kind() == reflect.String {
			return "too_short"
		}
		return "greater_than_equal"
	case "max":
		if fe.Kind() == reflect.String {
			return "too_long"
		}
		return "less_than_equal"
	case "gt":
		return "greater_than"
	case "lt":
		return "less_than"
	case "gte":
		return "greater_than_equal"
	case "lte":
		return "less_than_equal"
	case "category", "color":
		return "invalid_choice"
	}
	return "value_error"
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Input should be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Input should be less than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "category":
		return fmt.Sprintf("Invalid category. Allowed categories are: %s", strings.Join(models.ValidCategories, ", "))
	case "color":
		return fmt.Sprintf("Invalid color. Allowed colors are: %s", strings.Join(models.ValidColors, ", "))
	}
	return fmt.Sprintf("Field failed on the '%s' constraint", fe.Tag())
}
