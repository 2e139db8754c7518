package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// CustomerDetails is the checkout form.
type CustomerDetails struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ProjectDetails string `json:"projectDetails"`
}

var (
	validate   = validator.New(validator.WithRequiredStructEnabled())
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type phoneRegionKey struct{}

// withPhoneRegion sets the region numbers without a country code are
// parsed against.
func withPhoneRegion(ctx context.Context, region string) context.Context {
	return context.WithValue(ctx, phoneRegionKey{}, region)
}

func SetupValidator() {

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Name":           "vrequired_trim",
		"Email":          "vrequired_trim,vemail",
		"Phone":          "vphone",
		"ProjectDetails": "vrequired_trim",
	}, CustomerDetails{})

	err := validate.RegisterValidation("vrequired_trim", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		log.Fatalf("unable to register vrequired_trim: %v", err)
	}

	err = validate.RegisterValidation("vemail", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	if err != nil {
		log.Fatalf("unable to register vemail: %v", err)
	}

	// A phone is optional; once it has any digit it must be a real number.
	err = validate.RegisterValidationCtx("vphone", func(ctx context.Context, fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		if !strings.ContainsFunc(phone, unicode.IsDigit) {
			return true
		}

		region, _ := ctx.Value(phoneRegionKey{}).(string)
		num, err := phonenumbers.Parse(phone, region)
		if err != nil {
			return false
		}
		return phonenumbers.IsValidNumber(num)
	})
	if err != nil {
		log.Fatalf("unable to register vphone: %v", err)
	}

	slog.Info("Checkout service validator initialized")
}

type myValidatorErrs []myValidatorErr

func (m myValidatorErrs) Error() string {
	var s []string
	for _, err := range m {
		s = append(s, err.Error())
	}
	return strings.Join(s, ", ")
}

type myValidatorErr struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (m myValidatorErr) Error() string {
	return fmt.Sprintf("%s: %s", m.Field, m.Msg)
}

// ValidationResult is the outcome of checking the form. Errors follow form
// order; FocusElement is the id of the first invalid input.
type ValidationResult struct {
	Valid        bool            `json:"valid"`
	Errors       myValidatorErrs `json:"errors,omitempty"`
	FocusElement string          `json:"focusElement,omitempty"`
}

// ErrorFor returns the message for field, or "".
func (r *ValidationResult) ErrorFor(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Msg
		}
	}
	return ""
}

// ValidateCustomer checks the form. phoneRegion is the region used for
// numbers typed without a country code.
func ValidateCustomer(ctx context.Context, in *CustomerDetails, phoneRegion string) (*ValidationResult, error) {
	err := validate.StructCtx(withPhoneRegion(ctx, phoneRegion), in)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return nil, err
	}

	res := &ValidationResult{}
	for _, valErr := range valErrs {
		res.Errors = append(res.Errors, buildMyValidatorErr(valErr))
	}
	res.FocusElement = elementID(res.Errors[0].Field)
	return res, nil
}

func buildMyValidatorErr(f validator.FieldError) myValidatorErr {
	switch f.Field() + "/" + f.Tag() {
	case "name/vrequired_trim":
		return myValidatorErr{Field: f.Field(), Msg: "Name is required"}
	case "email/vrequired_trim":
		return myValidatorErr{Field: f.Field(), Msg: "Email is required"}
	case "email/vemail":
		return myValidatorErr{Field: f.Field(), Msg: "Please enter a valid email address"}
	case "phone/vphone":
		return myValidatorErr{Field: f.Field(), Msg: "Please enter a valid phone number"}
	case "projectDetails/vrequired_trim":
		return myValidatorErr{Field: f.Field(), Msg: "Project details are required"}
	default:
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("invalid value tag %s", f.Tag())}
	}
}

func elementID(field string) string {
	if field == "projectDetails" {
		return "checkout-details"
	}
	return "checkout-" + field
}
