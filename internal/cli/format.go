// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// Formatter renders amounts using the ledger's display settings.
type Formatter struct {
	Currency string
	Decimals int
}

// NewFormatter returns a Formatter for s.
func NewFormatter(s model.Settings) Formatter {
	return Formatter{Currency: s.Currency, Decimals: s.Decimals}
}

// Amount formats m with grouping, e.g. "1,234.50".
func (f Formatter) Amount(m money.Money) string {
	return money.Format(m, f.Decimals)
}

// Signed formats m with an explicit sign, e.g. "+12.00".
func (f Formatter) Signed(m money.Money) string {
	return money.FormatSigned(m, f.Decimals)
}

// Money formats m with the currency code, e.g. "AED 1,234.50".
func (f Formatter) Money(m money.Money) string {
	return money.FormatCurrency(m, f.Decimals, f.Currency)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatShare formats part as a percentage of whole, or "-" when whole is zero.
func FormatShare(part, whole money.Money) string {
	if whole.IsZero() {
		return "-"
	}
	return FormatPercent(part.Ratio(whole))
}

// FormatWhen formats a history timestamp relative to now.
// e.g., "just now", "5m ago", "3h ago", "2025-03-01"
func FormatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return t.Local().Format("2006-01-02 15:04")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("2006-01-02")
	}
}

// FormatDays formats a day count, e.g. "1 day", "18 days".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
