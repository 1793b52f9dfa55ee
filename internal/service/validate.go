package service

import (
	"strings"
	"unicode"
)

// validName accepts any non-blank text.
func validName(text string) (string, bool) {
	name := strings.TrimSpace(text)
	return name, name != ""
}

// validPhone accepts typed or contact-shared numbers: after trimming it must
// contain at least five digits and nothing but digits, spaces and the usual
// separators.
func validPhone(text string) (string, bool) {
	phone := strings.TrimSpace(text)
	if phone == "" {
		return "", false
	}

	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", false
		}
	}
	return phone, digits >= 5
}

func validAddress(text string) (string, bool) {
	address := strings.TrimSpace(text)
	return address, address != ""
}
