package newsletter

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The house price format uses "." as the thousands separator and ","
// as the decimal separator (1234.5 -> "1.234,50") for every output
// language. This is a fixed policy, not a locale lookup, so the
// printer is pinned rather than derived from the newsletter language.
var housePrinter = message.NewPrinter(language.German)

// FormatCurrency renders a price rounded to two decimal places in the
// house convention. The integer part is grouped by the printer; the
// cent digits are taken from the rounded decimal itself, so the
// formatted value is exact at any magnitude.
func FormatCurrency(value decimal.Decimal) string {
	rounded := value.Round(2)
	abs := rounded.Abs()

	fixed := abs.StringFixed(2)
	cents := fixed[len(fixed)-2:]

	out := housePrinter.Sprintf("%d", abs.IntPart()) + "," + cents
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}
