package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("opaque_id", validateOpaqueID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateOpaqueID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && !strings.ContainsAny(id, " \t\n")
}
