package validation

import (
	"fmt"     // Message formatting
	"reflect" // Struct tag inspection
	"regexp"  // Format validators
	"strings" // Tag name handling
	"sync"    // One-time registration
	"unicode" // Password character classes

	"github.com/gin-gonic/gin/binding"              // Gin's binding validator engine
	"github.com/go-playground/validator/v10"        // Validation library behind gin binding
)

// FieldError is a single validation violation, in the shape the API returns
type FieldError struct {
	Field   string `json:"field"`   // JSON field name
	Message string `json:"message"` // Human-readable message (Spanish, like the rest of the API)
	Value   any    `json:"value"`   // Offending value as received
}

var telefonoRe = regexp.MustCompile(`^[0-9+\-\s()]+$`) // Allowed phone characters

var registerOnce sync.Once // Custom validators are registered once per process

// Register wires the custom validators and JSON tag names into gin's
// binding engine. Safe to call from multiple packages.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return // Not the expected engine, nothing to register
		}
		// Report fields by their json tag so errors match the wire format
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Password strength: at least one lower, one upper and one digit
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			var lower, upper, digit bool
			for _, r := range fl.Field().String() {
				switch {
				case unicode.IsLower(r):
					lower = true
				case unicode.IsUpper(r):
					upper = true
				case unicode.IsDigit(r):
					digit = true
				}
			}
			return lower && upper && digit
		})
		// Phone format: digits plus +, -, spaces and parentheses
		_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
			return telefonoRe.MatchString(fl.Field().String())
		})
	})
}

// Translate converts a binding error into field-level violations. Returns
// nil when the error is not a validator error (e.g. malformed JSON), in
// which case the caller maps it to a plain 400.
func Translate(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil // Not a field-level validation failure
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),   // JSON name via RegisterTagNameFunc
			Message: message(fe),  // Per-tag Spanish message
			Value:   fe.Value(),   // Offending value
		})
	}
	return out
}

// message builds the Spanish message for a single violation
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "El campo es requerido"
	case "email":
		return "Debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("Debe ser al menos %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("No puede exceder %s caracteres", fe.Param())
		}
		return fmt.Sprintf("No puede exceder %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "password":
		return "La contraseña debe contener al menos una mayúscula, una minúscula y un número"
	case "telefono":
		return "Formato de teléfono inválido"
	default:
		return "Valor inválido"
	}
}
