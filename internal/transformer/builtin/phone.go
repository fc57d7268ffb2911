package builtin

import "strings"

// PhonePrefix is prepended to every normalized phone number.
const PhonePrefix = "+91-"

const phoneDigits = 10

// NormalizePhone formats a phone number as "+91-" followed by ten digits.
// Only digits are considered; when more than ten remain the trailing ten are
// kept (country/trunk prefixes are dropped). Anything shorter is returned
// unchanged.
func NormalizePhone(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == phoneDigits:
		return PhonePrefix + digits
	case len(digits) > phoneDigits:
		return PhonePrefix + digits[len(digits)-phoneDigits:]
	default:
		return s
	}
}
