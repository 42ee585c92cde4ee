// Package phone normalizes and formats Russian client phone numbers the way
// the salon's booking forms expect them.
package phone

import "strings"

// FullLength is the digit count of a complete RU number with country code.
const FullLength = 11

// Normalize reduces raw input to digits, rewrites a leading "8" to "7" and
// prefixes "7" when the country code is missing. The result is capped at 11
// digits; partial input yields a partial result.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	if digits[0] != '7' {
		digits = "7" + digits
	}
	if len(digits) > FullLength {
		digits = digits[:FullLength]
	}
	return digits
}

// Format renders normalized digits as "+7 (XXX) XXX-XX-XX", truncated to
// however many digits are present so far.
func Format(raw string) string {
	digits := Normalize(raw)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("+")
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteString(" (")
		b.WriteString(digits[1:min(4, len(digits))])
	}
	if len(digits) > 4 {
		b.WriteString(") ")
		b.WriteString(digits[4:min(7, len(digits))])
	}
	if len(digits) > 7 {
		b.WriteString("-")
		b.WriteString(digits[7:min(9, len(digits))])
	}
	if len(digits) > 9 {
		b.WriteString("-")
		b.WriteString(digits[9:min(11, len(digits))])
	}
	return b.String()
}

// Valid reports whether the input normalizes to a complete 11-digit number.
func Valid(raw string) bool {
	return len(Normalize(raw)) == FullLength
}
