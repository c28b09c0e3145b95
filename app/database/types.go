package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one cached vendor product, keyed by its article number.
// All derived fields are overwritten on every refresh; RawFields keeps
// the full d:-prefixed property bag for forward compatibility.
type Product struct {
	ID            int64
	ArticleNumber string

	NameDE   string
	NameEN   string
	Category string

	// Price tiers; a partial subset may be populated depending on feed
	// content. Absence is explicit, never encoded as zero.
	PriceDealer      decimal.NullDecimal
	PriceRetailNet   decimal.NullDecimal
	PriceRetailVAT   decimal.NullDecimal
	PriceRetailGross decimal.NullDecimal

	DescriptionDE string
	DescriptionEN string

	Artist      string
	Label       string
	Genre       string
	ReleaseDate string

	MainImageURL   string
	DetailImages   []string
	InventoryTotal int

	RawFields map[string]string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Run is one immutable newsletter generation record. RequestedItems
// keeps the original request, including line items that failed to
// resolve, as an audit trail independent of partial-failure filtering.
type Run struct {
	ID            int64
	Filename      string
	TemplateName  string
	Language      string
	ValidityDate  string
	ProductsCount int
	// JSON array of {article_number, discount, quantity} objects
	RequestedItems string
	HTMLPath       string
	PDFPath        string
	OutputDir      string
	CreatedAt      time.Time
}
