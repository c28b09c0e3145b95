package newsletter

import (
	"github.com/shopspring/decimal"
)

// LineItem is one requested newsletter position: an article number with
// a percentage discount and a quantity. Line items are transient; the
// run record stores the full requested set as JSON.
type LineItem struct {
	ArticleNumber string `json:"article_number" yaml:"article_number"`
	Discount      int    `json:"discount" yaml:"discount"`
	Quantity      int    `json:"quantity" yaml:"quantity"`
}

// Product is a cache record projected for rendering: price tier
// selected, discount applied, amounts formatted, and texts localized.
type Product struct {
	ArticleNumber string
	Name          string
	NameDE        string
	NameEN        string

	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
	FormattedPrice  string
	// Formatted undiscounted price; empty unless a discount applies.
	OriginalPrice string

	Discount            int
	Quantity            int
	TotalPrice          decimal.Decimal
	FormattedTotalPrice string

	ImageURL    string
	Category    string
	Description string
	Artist      string
	Label       string
	Genre       string
	ReleaseDate string
}

// Context is the data bound into a newsletter template.
type Context struct {
	Products      []Product
	TotalProducts int

	TotalAmount          decimal.Decimal
	FormattedTotalAmount string

	TotalDiscountAmount    decimal.Decimal
	FormattedTotalDiscount string

	ValidityDate          string
	FormattedValidityDate string

	Language       Language
	GenerationDate string
	GenerationTime string
}
