package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{"eleven distinct digits", "12345678901", true},
		{"mixed digits", "52998224725", true},
		{"repeated digit run", "11111111111", false},
		{"all zeros", "00000000000", false},
		{"too short", "1234567890", false},
		{"too long", "123456789012", false},
		{"formatted input rejected", "123.456.789-01", false},
		{"letters", "1234567890a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsCPF(tt.cpf))
		})
	}
}

func TestRegisterCPF(t *testing.T) {
	assert.NoError(t, RegisterCPF())
}
