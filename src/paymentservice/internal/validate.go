package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Razorpay accepts at most 15 note entries.
func SetupValidator() {
	validate.RegisterStructValidationMapRules(map[string]string{
		"Amount":   "gt=0",
		"Currency": "required,iso4217",
		"Notes":    "max=15",
	}, CreateOrderRequest{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"OrderID":   "required",
		"PaymentID": "required",
		"Signature": "required,hexadecimal",
	}, VerifyPaymentRequest{})

	slog.Info("Payment service validator initialized")
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
	Field string
	Msg   string
}

func (m myValidatorErr) Error() string {
	return fmt.Sprintf("%s %s", m.Field, m.Msg)
}

func ValidateStruct(in any) error {
	if err := validate.Struct(in); err != nil {

		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return err
		}

		var errs myValidatorErrs
		for _, valErr := range valErrs {
			errs = append(errs, buildMyValidatorErr(valErr))
		}
		return errs
	}
	return nil
}

func buildMyValidatorErr(f validator.FieldError) myValidatorErr {
	switch f.Tag() {
	case "required":
		return myValidatorErr{Field: f.Field(), Msg: "is required"}
	case "gt":
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("must be greater than %s", f.Param())}
	case "max":
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("must be at most %s", f.Param())}
	case "iso4217":
		return myValidatorErr{Field: f.Field(), Msg: "must be an ISO 4217 currency code"}
	case "hexadecimal":
		return myValidatorErr{Field: f.Field(), Msg: "must be hexadecimal"}
	default:
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("invalid value tag %s", f.Tag())}
	}
}
