package newsletter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtpmedia/mtp-newsletter/app/database"
)

// UnknownProductName is the placeholder when neither language carries
// a product name.
const UnknownProductName = "Unknown Product"

// SelectPrice picks the applicable price tier in priority order
// dealer, retail net, retail VAT, retail gross. Zero-forms were
// normalized to absent at the extraction boundary, so the first present
// tier is always a real price. All tiers absent means the article has
// no pricing yet; that projects to zero, never to an error.
func SelectPrice(product *database.Product) decimal.Decimal {
	tiers := []decimal.NullDecimal{
		product.PriceDealer,
		product.PriceRetailNet,
		product.PriceRetailVAT,
		product.PriceRetailGross,
	}
	for _, tier := range tiers {
		if tier.Valid {
			return tier.Decimal
		}
	}
	return decimal.Zero
}

// ApplyDiscount returns the unit price after a percentage discount.
// The no-discount path returns the price unchanged to avoid
// floating-point noise on the common case.
func ApplyDiscount(price decimal.Decimal, discount int) decimal.Decimal {
	if discount <= 0 {
		return price
	}
	factor := decimal.NewFromInt(100 - int64(discount)).Div(decimal.NewFromInt(100))
	return price.Mul(factor)
}

// SelectImage prefers the first detail image URL containing the
// article number, then the first URL; ok is false for an empty list.
func SelectImage(urls []string, articleNumber string) (string, bool) {
	if len(urls) == 0 {
		return "", false
	}
	for _, url := range urls {
		if strings.Contains(url, articleNumber) {
			return url, true
		}
	}
	return urls[0], true
}

// Project binds a cache record and a requested line item into a
// render-ready product for the given output language.
func Project(cached *database.Product, item LineItem, lang Language) Product {
	price := SelectPrice(cached)
	discounted := ApplyDiscount(price, item.Discount)

	nameDE := coalesce(cached.NameDE, cached.NameEN, UnknownProductName)
	nameEN := coalesce(cached.NameEN, cached.NameDE, UnknownProductName)
	descDE := coalesce(cached.DescriptionDE, cached.DescriptionEN)
	descEN := coalesce(cached.DescriptionEN, cached.DescriptionDE)

	name, desc := nameEN, descEN
	if lang == LanguageDE {
		name, desc = nameDE, descDE
	}

	imageURL, _ := SelectImage(cached.DetailImages, cached.ArticleNumber)
	total := discounted.Mul(decimal.NewFromInt(int64(item.Quantity)))

	originalPrice := ""
	if item.Discount > 0 {
		originalPrice = FormatCurrency(price)
	}

	return Product{
		ArticleNumber: cached.ArticleNumber,
		Name:          name,
		NameDE:        nameDE,
		NameEN:        nameEN,

		Price:           price,
		DiscountedPrice: discounted,
		FormattedPrice:  FormatCurrency(discounted),
		OriginalPrice:   originalPrice,

		Discount:            item.Discount,
		Quantity:            item.Quantity,
		TotalPrice:          total,
		FormattedTotalPrice: FormatCurrency(total),

		ImageURL:    imageURL,
		Category:    cached.Category,
		Description: desc,
		Artist:      cached.Artist,
		Label:       cached.Label,
		Genre:       cached.Genre,
		ReleaseDate: cached.ReleaseDate,
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
