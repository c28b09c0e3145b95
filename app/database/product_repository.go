package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// upsertBatchSize bounds transaction size on large feeds.
const upsertBatchSize = 200

type ProductRepositoryImpl struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepositoryImpl {
	return &ProductRepositoryImpl{db: db}
}

// UpsertProducts writes products with an atomic insert-or-update on the
// unique article number, committing in chunks of 200 rows. Returns the
// number of rows written.
func (r *ProductRepositoryImpl) UpsertProducts(products []Product) (int, error) {
	written := 0

	for start := 0; start < len(products); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(products) {
			end = len(products)
		}

		tx, err := r.db.Begin()
		if err != nil {
			return written, fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, product := range products[start:end] {
			if err := upsertProduct(tx, product); err != nil {
				tx.Rollback()
				return written, fmt.Errorf("failed to upsert product %s: %w", product.ArticleNumber, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return written, fmt.Errorf("failed to commit transaction: %w", err)
		}

		written += end - start
		slog.Info("Processed products", "count", written)
	}

	return written, nil
}

func upsertProduct(tx *sql.Tx, product Product) error {
	detailImages, err := json.Marshal(product.DetailImages)
	if err != nil {
		return fmt.Errorf("failed to encode detail images: %w", err)
	}
	if product.DetailImages == nil {
		detailImages = []byte("[]")
	}

	rawFields, err := json.Marshal(product.RawFields)
	if err != nil {
		return fmt.Errorf("failed to encode raw fields: %w", err)
	}
	if product.RawFields == nil {
		rawFields = []byte("{}")
	}

	now := time.Now().UTC()
	updatedAt := product.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err = tx.Exec(`
		INSERT INTO products (
			article_number, name_de, name_en, category,
			price_dealer, price_retail_net, price_retail_vat, price_retail_gross,
			description_de, description_en, artist, label, genre, release_date,
			main_image_url, detail_images, inventory_total,
			raw_fields, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (article_number) DO UPDATE SET
			name_de = excluded.name_de,
			name_en = excluded.name_en,
			category = excluded.category,
			price_dealer = excluded.price_dealer,
			price_retail_net = excluded.price_retail_net,
			price_retail_vat = excluded.price_retail_vat,
			price_retail_gross = excluded.price_retail_gross,
			description_de = excluded.description_de,
			description_en = excluded.description_en,
			artist = excluded.artist,
			label = excluded.label,
			genre = excluded.genre,
			release_date = excluded.release_date,
			main_image_url = excluded.main_image_url,
			detail_images = excluded.detail_images,
			inventory_total = excluded.inventory_total,
			raw_fields = excluded.raw_fields,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`, product.ArticleNumber, product.NameDE, product.NameEN, product.Category,
		product.PriceDealer, product.PriceRetailNet, product.PriceRetailVAT, product.PriceRetailGross,
		product.DescriptionDE, product.DescriptionEN, product.Artist, product.Label,
		product.Genre, product.ReleaseDate,
		product.MainImageURL, string(detailImages), product.InventoryTotal,
		string(rawFields), product.IsActive, now, updatedAt)

	return err
}

const productColumns = `
	id, article_number, name_de, name_en, category,
	price_dealer, price_retail_net, price_retail_vat, price_retail_gross,
	description_de, description_en, artist, label, genre, release_date,
	main_image_url, detail_images, inventory_total,
	raw_fields, is_active, created_at, updated_at
`

// GetProduct retrieves a product by article number, or nil when absent.
func (r *ProductRepositoryImpl) GetProduct(articleNumber string) (*Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE article_number = ?`, articleNumber)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", articleNumber, err)
	}

	return product, nil
}

func (r *ProductRepositoryImpl) GetProductCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get product count: %w", err)
	}
	return count, nil
}

func (r *ProductRepositoryImpl) GetActiveProductCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM products WHERE is_active = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get active product count: %w", err)
	}
	return count, nil
}

func scanProduct(row *sql.Row) (*Product, error) {
	var product Product
	var detailImages, rawFields string

	err := row.Scan(
		&product.ID, &product.ArticleNumber, &product.NameDE, &product.NameEN, &product.Category,
		&product.PriceDealer, &product.PriceRetailNet, &product.PriceRetailVAT, &product.PriceRetailGross,
		&product.DescriptionDE, &product.DescriptionEN, &product.Artist, &product.Label,
		&product.Genre, &product.ReleaseDate,
		&product.MainImageURL, &detailImages, &product.InventoryTotal,
		&rawFields, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Stored JSON is written by this process; a decode failure means a
	// corrupted row and is treated as empty, not fatal.
	if err := json.Unmarshal([]byte(detailImages), &product.DetailImages); err != nil {
		product.DetailImages = nil
	}
	if err := json.Unmarshal([]byte(rawFields), &product.RawFields); err != nil {
		product.RawFields = nil
	}

	return &product, nil
}
