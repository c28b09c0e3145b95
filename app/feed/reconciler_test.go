package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mtpmedia/mtp-newsletter/app/database"
)

const productFeedXML = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices"
      xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata">
  <entry>
    <content type="application/xml">
      <m:properties>
        <d:Artikelnummer>MTP102004</d:Artikelnummer>
        <d:Bezeichnung-Deutsch>Test Produkt</d:Bezeichnung-Deutsch>
        <d:Bezeichnung-Englisch>Test Product</d:Bezeichnung-Englisch>
        <d:Artikelgruppe>Vinyl</d:Artikelgruppe>
        <d:dealer_price>17,90</d:dealer_price>
        <d:retail_price_gross>29,90</d:retail_price_gross>
        <d:Detailbilder>"https://cdn.example.com/MTP102004.jpg" https://cdn.example.com/extra.jpg</d:Detailbilder>
        <d:Gesamtlagerbestand>12</d:Gesamtlagerbestand>
      </m:properties>
    </content>
  </entry>
  <entry>
    <content type="application/xml">
      <m:properties>
        <d:Artikelnummer></d:Artikelnummer>
        <d:Bezeichnung-Deutsch>Header Row</d:Bezeichnung-Deutsch>
      </m:properties>
    </content>
  </entry>
  <entry>
    <content type="application/xml">
      <m:properties>
        <d:Artikelnummer>MTP102005</d:Artikelnummer>
        <d:Bezeichnung-Deutsch>Zweites Produkt</d:Bezeichnung-Deutsch>
        <d:retail_price_net>0,00</d:retail_price_net>
        <d:Gesamtlagerbestand>unbekannt</d:Gesamtlagerbestand>
      </m:properties>
    </content>
  </entry>
</feed>`

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "newsletter.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return db
}

func newFeedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/SmartReportDataClass_mtpWebshopProducts" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if username, password, ok := r.BasicAuth(); !ok || username != "user" || password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if accept := r.Header.Get("Accept"); accept != "application/xml" {
			t.Errorf("Expected Accept application/xml, got %s", accept)
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestReconciler_Run(t *testing.T) {
	db := newTestDB(t)
	server := newFeedServer(t, productFeedXML, http.StatusOK)

	repo := database.NewProductRepository(db)
	client := NewClient(server.URL, "user", "secret", "test-agent")
	reconciler := NewReconciler(client, repo)

	count, err := reconciler.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// The entry with an empty article number is skipped, not counted.
	if count != 2 {
		t.Errorf("Expected 2 products processed, got %d", count)
	}

	product, err := repo.GetProduct("MTP102004")
	if err != nil {
		t.Fatal(err)
	}
	if product == nil {
		t.Fatal("Expected MTP102004 in cache")
	}

	if product.NameDE != "Test Produkt" {
		t.Errorf("Expected name 'Test Produkt', got '%s'", product.NameDE)
	}
	if !product.PriceDealer.Valid {
		t.Error("Expected dealer price to be present")
	}
	if product.PriceRetailNet.Valid {
		t.Error("Expected retail net price to be absent")
	}
	if product.InventoryTotal != 12 {
		t.Errorf("Expected inventory 12, got %d", product.InventoryTotal)
	}
	if len(product.DetailImages) != 2 {
		t.Fatalf("Expected 2 detail images, got %d", len(product.DetailImages))
	}
	if product.DetailImages[0] != "https://cdn.example.com/MTP102004.jpg" {
		t.Errorf("Unexpected first detail image: %s", product.DetailImages[0])
	}
	if !product.IsActive {
		t.Error("Expected product to be active")
	}
	if product.RawFields["d:Artikelgruppe"] != "Vinyl" {
		t.Errorf("Expected raw field capture, got %v", product.RawFields)
	}
}

func TestReconciler_Run_DefaultsOnBadValues(t *testing.T) {
	db := newTestDB(t)
	server := newFeedServer(t, productFeedXML, http.StatusOK)

	repo := database.NewProductRepository(db)
	reconciler := NewReconciler(NewClient(server.URL, "user", "secret", "test-agent"), repo)

	if _, err := reconciler.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	product, err := repo.GetProduct("MTP102005")
	if err != nil {
		t.Fatal(err)
	}
	if product == nil {
		t.Fatal("Expected MTP102005 in cache")
	}

	// Unparseable inventory defaults to zero; the "0,00" price form is
	// absent, not a zero price.
	if product.InventoryTotal != 0 {
		t.Errorf("Expected inventory 0, got %d", product.InventoryTotal)
	}
	if product.PriceRetailNet.Valid {
		t.Error("Expected retail net price to be absent for '0,00'")
	}
}

func TestReconciler_Run_Idempotent(t *testing.T) {
	db := newTestDB(t)
	server := newFeedServer(t, productFeedXML, http.StatusOK)

	repo := database.NewProductRepository(db)
	reconciler := NewReconciler(NewClient(server.URL, "user", "secret", "test-agent"), repo)

	if _, err := reconciler.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	first, err := repo.GetProduct("MTP102004")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reconciler.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	count, err := repo.GetProductCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows after repeated refresh, got %d", count)
	}

	second, err := repo.GetProduct("MTP102004")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected update in place, got new row %d (was %d)", second.ID, first.ID)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Error("Expected last_updated to advance")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected created_at to be preserved, got %v (was %v)", second.CreatedAt, first.CreatedAt)
	}
}

func TestReconciler_Run_UpstreamErrorAborts(t *testing.T) {
	db := newTestDB(t)
	server := newFeedServer(t, "server error", http.StatusInternalServerError)

	repo := database.NewProductRepository(db)
	reconciler := NewReconciler(NewClient(server.URL, "user", "secret", "test-agent"), repo)

	if _, err := reconciler.Run(context.Background()); err == nil {
		t.Fatal("Expected error for upstream failure")
	}

	count, err := repo.GetProductCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected no products after failed refresh, got %d", count)
	}
}

func TestReconciler_Run_MissingFeedRootAborts(t *testing.T) {
	db := newTestDB(t)
	server := newFeedServer(t, `<?xml version="1.0"?><error>denied</error>`, http.StatusOK)

	reconciler := NewReconciler(NewClient(server.URL, "user", "secret", "test-agent"), database.NewProductRepository(db))

	if _, err := reconciler.Run(context.Background()); err == nil {
		t.Fatal("Expected error for missing feed root")
	}
}
