package validator

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"cardapio/internal/model"

	"github.com/go-playground/validator/v10"
)

// Report is the outcome of an aggregate validation.
type Report struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Message joins the collected errors the way they are shown to the user.
func (r Report) Message() string {
	return strings.Join(r.Errors, ", ")
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		return ValidTaxID(fl.Field().String())
	})
	v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return ValidPostalCode(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		ok, _ := CheckPassword(fl.Field().String())
		return ok
	})
	v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	return v
}

// messages maps "<Struct>.<Field>" to the text reported for any failed tag.
// Tags with their own text are keyed "<Struct>.<Field>/<tag>".
var messages = map[string]string{
	"UserInput.Name":              "name must have at least 2 characters",
	"UserInput.Email":             "invalid email",
	"UserInput.Password/required": "password is required",
	"UserInput.Role":              "invalid user role",

	"RestaurantInput.Name":       "restaurant name must have at least 2 characters",
	"RestaurantInput.TaxID":      "invalid tax id",
	"RestaurantInput.Address":    "address is required",
	"Address.Street":             "street must have at least 3 characters",
	"Address.Number":             "number is required",
	"Address.PostalCode":         "invalid postal code",
	"Address.Neighborhood":       "neighborhood must have at least 2 characters",
	"Address.City":               "city must have at least 2 characters",
	"Address.State":              "state must have 2 characters",
	"Address.Latitude/required":  "coordinates must be numbers",
	"Address.Longitude/required": "coordinates must be numbers",
	"Address.Latitude":           "invalid coordinates",
	"Address.Longitude":          "invalid coordinates",

	"ProductInput.Name":              "product name must have at least 2 characters",
	"ProductInput.Description":       "description must have at least 10 characters",
	"ProductInput.Price":             "price must be a positive value",
	"ProductInput.ImageURL/required": "image is required",
	"ProductInput.ImageURL/url":      "invalid image URL",
	"ProductInput.RestaurantID":      "restaurant id is required",
}

func messageFor(fe validator.FieldError) string {
	// StructNamespace is "UserInput.Name" or "RestaurantInput.Address.City"
	parts := strings.Split(fe.StructNamespace(), ".")
	key := fe.StructField()
	if len(parts) >= 2 {
		key = parts[len(parts)-2] + "." + fe.StructField()
	}
	if fe.Tag() == "password" {
		_, msg := CheckPassword(fe.Value().(string))
		return msg
	}
	if msg, ok := messages[key+"/"+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[key]; ok {
		return msg
	}
	return fe.Error()
}

func report(payload any) Report {
	err := validate.Struct(payload)
	if err == nil {
		return Report{Valid: true, Errors: []string{}}
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Report{Valid: false, Errors: []string{err.Error()}}
	}
	seen := make(map[string]bool, len(fieldErrs))
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := messageFor(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, msg)
	}
	return Report{Valid: false, Errors: out}
}

func ValidateUser(in model.UserInput) Report {
	return report(in)
}

func ValidateRestaurant(in model.RestaurantInput) Report {
	return report(in)
}

func ValidateProduct(in model.ProductInput) Report {
	return report(in)
}
