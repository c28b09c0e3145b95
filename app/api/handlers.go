package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mtpmedia/mtp-newsletter/app/database"
)

type Handler struct {
	productRepo database.ProductRepository
	runRepo     database.RunRepository
}

func NewHandler(productRepo database.ProductRepository, runRepo database.RunRepository) *Handler {
	return &Handler{
		productRepo: productRepo,
		runRepo:     runRepo,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if count, err := h.productRepo.GetProductCount(); err == nil {
		health["products"] = count
	}
	if count, err := h.runRepo.GetRunCount(); err == nil {
		health["runs"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := h.runRepo.ListRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, newRunSummary(run))
	}

	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (h *Handler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run id must be an integer"})
		return
	}

	run, err := h.runRepo.GetRun(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, newRunDetail(*run))
}

func (h *Handler) GetProduct(c *gin.Context) {
	articleNumber := c.Param("article")

	product, err := h.productRepo.GetProduct(articleNumber)
	if err != nil {
		slog.Error("Database error", "operation", "get_product", "article_number", articleNumber, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, newProductDetail(*product))
}

func newRunSummary(run database.Run) runSummary {
	return runSummary{
		ID:            run.ID,
		Filename:      run.Filename,
		TemplateName:  run.TemplateName,
		Language:      run.Language,
		ProductsCount: run.ProductsCount,
		HTMLPath:      run.HTMLPath,
		CreatedAt:     run.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newRunDetail(run database.Run) runDetail {
	detail := runDetail{
		runSummary:   newRunSummary(run),
		ValidityDate: run.ValidityDate,
		PDFPath:      run.PDFPath,
		OutputDir:    run.OutputDir,
	}

	// requested_items is JSON written by the generator; expose it as
	// structured data, falling back to raw text for corrupted rows.
	if err := json.Unmarshal([]byte(run.RequestedItems), &detail.RequestedItems); err != nil {
		detail.RequestedItemsRaw = run.RequestedItems
	}

	return detail
}

func newProductDetail(product database.Product) productDetail {
	detail := productDetail{
		ArticleNumber:  product.ArticleNumber,
		NameDE:         product.NameDE,
		NameEN:         product.NameEN,
		Category:       product.Category,
		Artist:         product.Artist,
		Label:          product.Label,
		Genre:          product.Genre,
		ReleaseDate:    product.ReleaseDate,
		MainImageURL:   product.MainImageURL,
		DetailImages:   product.DetailImages,
		InventoryTotal: product.InventoryTotal,
		IsActive:       product.IsActive,
		UpdatedAt:      product.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if product.PriceDealer.Valid {
		detail.PriceDealer = product.PriceDealer.Decimal.String()
	}
	if product.PriceRetailNet.Valid {
		detail.PriceRetailNet = product.PriceRetailNet.Decimal.String()
	}
	if product.PriceRetailVAT.Valid {
		detail.PriceRetailVAT = product.PriceRetailVAT.Decimal.String()
	}
	if product.PriceRetailGross.Valid {
		detail.PriceRetailGross = product.PriceRetailGross.Decimal.String()
	}

	return detail
}
