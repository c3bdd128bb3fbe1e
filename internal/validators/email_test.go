package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailValid(t *testing.T) {
	assert.True(t, IsEmailValid("ana@example.com"))
	assert.True(t, IsEmailValid(" ana@example.com "))
	assert.False(t, IsEmailValid("ana@"))
	assert.False(t, IsEmailValid("not an email"))
	assert.False(t, IsEmailValid(""))
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+55 (11) 98765-4321": "+5511987654321",
		"11 98765 4321":       "11987654321",
		" 123 ":               "123",
		"12+34":               "1234",
		"abc":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}
