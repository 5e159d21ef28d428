package uri

import (
	"restfetch/util/rule"

	"github.com/pkg/errors"
)

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.2
func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	if rule.IsAlpha(c) || rule.IsDigit(c) {
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

func assertValidScheme(scheme string) error {
	if len(scheme) == 0 {
		return errors.Wrap(ErrInvalidScheme, "scheme is empty")
	}

	if !rule.IsAlpha(scheme[0]) {
		return errors.Wrap(ErrInvalidScheme, "scheme doesn't start with ALPHA")
	}

	for idx := 1; idx < len(scheme); idx++ {
		c := scheme[idx]
		switch {
		case rule.IsAlpha(c) || rule.IsDigit(c):
		case c == '+' || c == '-' || c == '.':
		default:
			return errors.Wrap(ErrInvalidScheme, "scheme contains invalid byte")
		}
	}

	return nil
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !rule.IsDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

// The percent character is treated as an ordinary member of each set,
// covering percent-encoded octets without decoding them.

func isAuthorityChar(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) ||
		c == '%' || c == '@' || c == ':' || c == '[' || c == ']'
}

func isPathChar(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) ||
		c == '%' || c == '/' || c == ':' || c == '@'
}

func isQueryFragChar(c byte) bool { return isPathChar(c) || c == '?' }

func isAllAuthorityChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAuthorityChar(s[i]) {
			return false
		}
	}
	return true
}

func isAllPathChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isPathChar(s[i]) {
			return false
		}
	}
	return true
}

func isAllQueryFragChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isQueryFragChar(s[i]) {
			return false
		}
	}
	return true
}
