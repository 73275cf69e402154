package money

import "strings"

// Format renders m with thousands separators and exactly decimals places.
// e.g., Format(1234.5, 2) -> "1,234.50"
func Format(m Money, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := m.d.StringFixed(int32(decimals))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg && strings.Trim(s, "0.") != "" {
		b.WriteByte('-')
	}
	remainder := len(intPart) % 3
	if remainder > 0 {
		b.WriteString(intPart[:remainder])
	}
	for i := remainder; i < len(intPart); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatSigned is Format with an explicit "+" for non-negative amounts.
func FormatSigned(m Money, decimals int) string {
	if m.IsNegative() {
		return Format(m, decimals)
	}
	return "+" + Format(m, decimals)
}

// FormatCurrency prefixes the formatted amount with a currency label.
func FormatCurrency(m Money, decimals int, currency string) string {
	if currency == "" {
		return Format(m, decimals)
	}
	return currency + " " + Format(m, decimals)
}
