package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mtpmedia/mtp-newsletter/app/database"
)

// Reconciler refreshes the local product cache from the vendor feed.
// It is the only component writing to the products table.
type Reconciler struct {
	client      *Client
	productRepo database.ProductRepository
}

func NewReconciler(client *Client, productRepo database.ProductRepository) *Reconciler {
	return &Reconciler{
		client:      client,
		productRepo: productRepo,
	}
}

// Run fetches the feed and upserts one cache record per article number.
// Entries without an article number are skipped silently: the feed may
// contain header or malformed rows. Returns the number of products
// written.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	doc, err := r.client.FetchProductFeed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch product data from MTP API: %w", err)
	}

	startTime := time.Now()
	entries := doc.Entries()

	products := make([]database.Product, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		props := Properties(entry)

		articleNumber := strings.TrimSpace(Text(props["Artikelnummer"]))
		if articleNumber == "" {
			skipped++
			continue
		}

		products = append(products, buildProduct(articleNumber, props))
	}

	count, err := r.productRepo.UpsertProducts(products)
	if err != nil {
		return count, fmt.Errorf("failed to refresh product cache: %w", err)
	}

	slog.Info("Cache refresh completed",
		"entries", len(entries),
		"products", count,
		"skipped", skipped,
		"duration", time.Since(startTime))

	return count, nil
}

// buildProduct maps a feed property bag onto a cache record. Every
// derived field is overwritten; this is a full projection of the entry,
// not a merge.
func buildProduct(articleNumber string, props map[string]*Node) database.Product {
	inventory, ok := Count(props["Gesamtlagerbestand"])
	if !ok {
		inventory = 0
	}

	rawFields := make(map[string]string, len(props))
	for name, node := range props {
		rawFields["d:"+name] = Text(node)
	}

	return database.Product{
		ArticleNumber: articleNumber,

		NameDE:   Text(props["Bezeichnung-Deutsch"]),
		NameEN:   Text(props["Bezeichnung-Englisch"]),
		Category: Text(props["Artikelgruppe"]),

		PriceDealer:      Price(props["dealer_price"]),
		PriceRetailNet:   Price(props["retail_price_net"]),
		PriceRetailVAT:   Price(props["retail_price_vat"]),
		PriceRetailGross: Price(props["retail_price_gross"]),

		DescriptionDE: Text(props["Langtext-Deutsch"]),
		DescriptionEN: Text(props["Langtext-Englisch"]),

		Artist:      Text(props["Künstler"]),
		Label:       Text(props["Label"]),
		Genre:       Text(props["Genre"]),
		ReleaseDate: Text(props["Veröffentlichungsdatum"]),

		MainImageURL:   Text(props["Produktbild"]),
		DetailImages:   DetailImages(Text(props["Detailbilder"])),
		InventoryTotal: inventory,

		RawFields: rawFields,
		IsActive:  true,
		UpdatedAt: time.Now().UTC(),
	}
}
