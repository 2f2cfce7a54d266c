package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeValidation, Validation("bad input").Code)
	assert.Equal(t, CodeConflict, Conflict("taken").Code)
	assert.Equal(t, CodeDomainRule, DomainRule("not allowed").Code)
	assert.Equal(t, "appointment not found", NotFound("appointment").Message)
	assert.Equal(t, `unknown status "X"`, Validationf("unknown status %q", "X").Message)
}

func TestErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal error: connection refused", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "taken", Conflict("taken").Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(Conflict("taken")))
	assert.Equal(t, CodeInternal, CodeOf(stderrors.New("plain")))
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("wrapped: %w", NotFound("client"))))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Validation("bad"), CodeValidation))
	assert.False(t, Is(Validation("bad"), CodeConflict))
	assert.True(t, Is(fmt.Errorf("outer: %w", Conflict("taken")), CodeConflict))
}
