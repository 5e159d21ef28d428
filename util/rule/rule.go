// Package rule holds the character classes shared by the URI and HTTP
// grammars.
//
// Reference:
// - https://datatracker.ietf.org/doc/html/rfc3986#section-2
// - https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2
package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
	VT   byte = 0x0B
	FF   byte = 0x0C
)

var (
	OWS         = []byte{SP, HTAB}
	CRLF        = []byte{CR, LF}
	Whitespaces = []byte{SP, HTAB, VT, FF, CR}
)

func IsWhitespace(c byte) bool {
	for _, ws := range Whitespaces {
		if c == ws {
			return true
		}
	}
	return false
}

func IsAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

func IsHex(c byte) bool {
	return IsDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// IsValidToken reports whether s is a valid HTTP token.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if IsAlpha(c) || IsDigit(c) {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}
