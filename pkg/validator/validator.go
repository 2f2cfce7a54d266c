package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// IsCPF reports whether s is an acceptable CPF: exactly 11 digits and
// not a run of a single repeated digit. Sequences like 11111111111 are
// syntactically valid but rejected by the national registry.
func IsCPF(s string) bool {
	if len(s) != 11 {
		return false
	}
	allSame := true
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if s[i] != s[0] {
			allSame = false
		}
	}
	return !allSame
}

// RegisterCPF installs the "cpf" rule on gin's binding engine so request
// structs can declare `binding:"cpf"`.
func RegisterCPF() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsCPF(fl.Field().String())
	})
}
