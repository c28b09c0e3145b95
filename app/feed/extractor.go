package feed

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field extraction is total: feed values arrive in heterogeneous shapes
// (plain scalars, attributed elements, locale-formatted numbers,
// quoted URL lists) and every shape normalizes to a typed value or an
// explicit absent, never an error.

// Text returns the character data of a property node. A nil node (the
// field is missing from the entry) is the empty string.
func Text(node *Node) string {
	if node == nil {
		return ""
	}
	return node.Text
}

// Price parses a vendor price field in the thousands-dot/decimal-comma
// convention ("1.234,50"). The empty string and any zero value
// ("0", "0,00", "0,0", ...) mean "no price yet" and map to absent, as
// does any unparseable value. A present price is always non-zero.
func Price(node *Node) decimal.NullDecimal {
	text := Text(node)
	if text == "" {
		return decimal.NullDecimal{}
	}

	normalized := strings.ReplaceAll(text, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	value, err := decimal.NewFromString(normalized)
	if err != nil || value.IsZero() {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: value, Valid: true}
}

// DetailImages splits a whitespace-delimited URL list, stripping one
// layer of surrounding quotes per token and keeping only http(s) URLs.
// Order is preserved and duplicates are kept.
func DetailImages(value string) []string {
	var urls []string
	for _, part := range strings.Fields(value) {
		url := strings.Trim(part, `"`)
		if strings.HasPrefix(url, "http") {
			urls = append(urls, url)
		}
	}
	return urls
}

// Count parses an integer field. The ok result is false when the field
// is missing, empty, or unparseable; callers choose the default.
func Count(node *Node) (int, bool) {
	text := strings.TrimSpace(Text(node))
	if text == "" {
		return 0, false
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return value, true
}
