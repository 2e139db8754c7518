package internal

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate        = validator.New(validator.WithRequiredStructEnabled())
	settingKeyRegex = regexp.MustCompile(`^[a-z0-9_.-]+$`)
)

func SetupValidator() {

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Label":     "required,max=100",
		"SectionID": "required,max=100",
	}, QuickLink{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Name":  "required,max=100",
		"Price": "required,max=50",
	}, FooterService{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"CompanyName": "omitempty,max=200",
		"Email":       "omitempty,email",
		"GithubURL":   "omitempty,url",
		"LinkedinURL": "omitempty,url",
		"TwitterURL":  "omitempty,url",
		"QuickLinks":  "omitempty,dive",
		"Services":    "omitempty,dive",
	}, FooterPatch{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Title":              "required,max=200",
		"Subtitle":           "max=300",
		"CTAPrimaryText":     "max=50",
		"CTAPrimaryLink":     "max=500",
		"CTASecondaryText":   "max=50",
		"CTASecondaryLink":   "max=500",
		"BackgroundImageURL": "max=2048",
		"DisplayOrder":       "gte=0",
	}, HeroContent{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"SettingKey":  "required,max=100,vsetting_key",
		"SettingType": "oneof=text textarea url email number boolean json",
	}, SiteSetting{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"InfoType":     "oneof=email phone whatsapp address location other",
		"Label":        "required,max=100",
		"Value":        "required,max=500",
		"DisplayOrder": "gte=0",
	}, ContactInfo{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Platform":     "required,max=50",
		"URL":          "required,url",
		"DisplayOrder": "gte=0",
	}, SocialLink{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Name":         "required,max=100",
		"Category":     "required,max=100",
		"Proficiency":  "gte=0,lte=100",
		"DisplayOrder": "gte=0",
	}, Skill{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Label":        "required,max=100",
		"Value":        "required,max=100",
		"DisplayOrder": "gte=0",
	}, Achievement{})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Username": "required",
		"Password": "required",
	}, LoginRequest{})

	err := validate.RegisterValidation("vsetting_key", func(fl validator.FieldLevel) bool {
		return settingKeyRegex.MatchString(fl.Field().String())
	})
	if err != nil {
		log.Fatalf("unable to register vsetting_key: %v", err)
	}
}

type myValidatorErrs []myValidatorErr

func (m myValidatorErrs) Error() string {
	var b strings.Builder
	for _, e := range m {
		b.WriteString(e.Error() + "\n")
	}
	return b.String()
}

type myValidatorErr struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (m myValidatorErr) Error() string {
	return fmt.Sprintf("%s: %s", m.Field, m.Msg)
}

// validateStruct returns myValidatorErrs when v breaks a rule.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

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

func buildMyValidatorErr(f validator.FieldError) myValidatorErr {
	switch f.Tag() {
	case "required":
		return myValidatorErr{Field: f.Field(), Msg: "must be provided"}
	case "max":
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("must be at most %s characters", f.Param())}
	case "gte", "lte":
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("must be %s %s", f.Tag(), f.Param())}
	case "email":
		return myValidatorErr{Field: f.Field(), Msg: "invalid email address"}
	case "url":
		return myValidatorErr{Field: f.Field(), Msg: "invalid url"}
	case "oneof":
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("must be one of [%s]", f.Param())}
	case "vsetting_key":
		return myValidatorErr{Field: f.Field(), Msg: "may only contain lowercase letters, digits, '_', '.' and '-'"}
	default:
		return myValidatorErr{Field: f.Field(), Msg: fmt.Sprintf("invalid value tag %s", f.Tag())}
	}
}
