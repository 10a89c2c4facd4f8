package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneValidator_Validate(t *testing.T) {
	v := NewPhoneValidator()

	t.Run("Valid plain number", func(t *testing.T) {
		normalized, err := v.Validate("11912345678")
		assert.NoError(t, err)
		assert.Equal(t, "11912345678", normalized)
	})

	t.Run("Valid formatted number", func(t *testing.T) {
		normalized, err := v.Validate("(11) 91234-5678")
		assert.NoError(t, err)
		assert.Equal(t, "11912345678", normalized)
	})

	t.Run("Valid international number", func(t *testing.T) {
		normalized, err := v.Validate("+55 11 91234-5678")
		assert.NoError(t, err)
		assert.Equal(t, "5511912345678", normalized)
	})

	t.Run("Empty number", func(t *testing.T) {
		_, err := v.Validate("")
		assert.ErrorIs(t, err, ErrEmptyPhone)
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := v.Validate("1234567")
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("Too long", func(t *testing.T) {
		_, err := v.Validate("1234567890123456")
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("Letters rejected", func(t *testing.T) {
		_, err := v.Validate("11abcd5678")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Only punctuation rejected", func(t *testing.T) {
		_, err := v.Validate("---")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestPhoneValidator_Sanitize(t *testing.T) {
	v := NewPhoneValidator()

	assert.Equal(t, "11912345678", v.Sanitize("(11) 91234-5678"))
	assert.Equal(t, "5511912345678", v.Sanitize("+55 11 91234 5678"))
	assert.Equal(t, "", v.Sanitize("   "))
}
