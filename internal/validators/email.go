package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsEmailValid checks RFC 5322 address syntax. No DNS lookup is made.
func IsEmailValid(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// NormalizePhone keeps digits and a leading plus so the same number typed
// with different separators maps to one client.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
