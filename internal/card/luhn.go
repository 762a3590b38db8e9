package card

import "strings"

// ValidateLuhn applies the standard modulo-10 checksum to a digit string.
// Numbers shorter than 13 or longer than 19 digits are invalid outright.
func ValidateLuhn(digits string) bool {
	length := len(digits)
	if length < 13 || length > 19 {
		return false
	}
	sum := 0
	double := false
	for i := length - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// MaskNumber returns a PCI-safe rendition of a digit string for log
// lines: at most the first six and last four digits are visible. Short
// strings (a bare BIN prefix) are returned unchanged.
func MaskNumber(digits string) string {
	if len(digits) <= 10 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits))
	b.WriteString(digits[:6])
	b.WriteString(strings.Repeat("*", len(digits)-10))
	b.WriteString(digits[len(digits)-4:])
	return b.String()
}
