// internal/app/system/inputval/validate.go
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire form of calendar dates (birth dates, camp days).
const DateLayout = "2006-01-02"

// FieldError is one failed rule, already rendered for display.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the errors of one Validate call.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
	// now is swapped in tests that need a fixed "today".
	now = time.Now
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		mustRegister(v, "email", func(fl validator.FieldLevel) bool { return IsValidEmail(fl.Field().String()) })
		mustRegister(v, "objectid", func(fl validator.FieldLevel) bool { return IsValidObjectID(fl.Field().String()) })
		mustRegister(v, "authmethod", func(fl validator.FieldLevel) bool { return IsValidAuthMethod(fl.Field().String()) })
		mustRegister(v, "phonebe", func(fl validator.FieldLevel) bool { return phone.Valid(fl.Field().String()) })
		mustRegister(v, "patrogroup", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseGroup(fl.Field().String())
			return ok
		})
		mustRegister(v, "patrosection", func(fl validator.FieldLevel) bool {
			_, ok := sections.Parse(fl.Field().String())
			return ok
		})
		mustRegister(v, "patrorole", func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		})
		mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		mustRegister(v, "pastdate", func(fl validator.FieldLevel) bool {
			d, err := time.Parse(DateLayout, fl.Field().String())
			if err != nil {
				return false
			}
			return !d.After(now())
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// Validate runs the `validate` struct tags of s. Messages are in French and
// name fields by their `label` tag.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return fmt.Sprintf("%s est obligatoire.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s doit contenir au plus %s caractères.", label, fe.Param())
		}
		return fmt.Sprintf("%s doit être au plus %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s doit contenir au moins %s caractères.", label, fe.Param())
		}
		return fmt.Sprintf("%s doit être au moins %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s doit être supérieur ou égal à %s.", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s doit être supérieur à %s.", label, fe.Param())
	case "eq":
		if fe.Kind() == reflect.Bool {
			return fmt.Sprintf("%s doit être accepté(e).", label)
		}
		return fmt.Sprintf("%s doit valoir %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s doit être l'une des valeurs suivantes : %s.", label, fe.Param())
	case "email":
		return "Une adresse e-mail valide est requise."
	case "phonebe":
		return fmt.Sprintf("%s n'est pas un numéro de téléphone valide.", label)
	case "patrogroup":
		return fmt.Sprintf("%s doit être GARCONS ou FILLES.", label)
	case "patrosection":
		return fmt.Sprintf("%s n'est pas une section connue.", label)
	case "patrorole":
		return fmt.Sprintf("%s n'est pas un rôle connu.", label)
	case "isodate":
		return fmt.Sprintf("%s doit être une date au format AAAA-MM-JJ.", label)
	case "pastdate":
		return fmt.Sprintf("%s doit être une date passée au format AAAA-MM-JJ.", label)
	case "objectid":
		return fmt.Sprintf("%s n'est pas un identifiant valide.", label)
	case "authmethod":
		return fmt.Sprintf("%s n'est pas une méthode de connexion valide.", label)
	case "nefield":
		return fmt.Sprintf("%s doit être différent de l'ancienne valeur.", label)
	}
	return fmt.Sprintf("%s est invalide.", label)
}
