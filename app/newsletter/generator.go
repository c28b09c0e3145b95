package newsletter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtpmedia/mtp-newsletter/app/database"
)

// PDFRenderer converts finished HTML into a PDF file. The renderer is
// an external collaborator; a missing renderer is a configuration
// error, never a silent skip.
type PDFRenderer interface {
	Render(htmlPath, pdfPath string) error
}

// Generator renders newsletters from cached products and records every
// generation as an immutable run.
type Generator struct {
	productRepo database.ProductRepository
	runRepo     database.RunRepository
	pdfRenderer PDFRenderer
}

func NewGenerator(productRepo database.ProductRepository, runRepo database.RunRepository, pdfRenderer PDFRenderer) *Generator {
	return &Generator{
		productRepo: productRepo,
		runRepo:     runRepo,
		pdfRenderer: pdfRenderer,
	}
}

type GenerateParams struct {
	TemplatePath string
	TemplateName string
	Language     Language
	Items        []LineItem
	ValidityDate string
	GeneratePDF  bool
	OutputDir    string
}

type GenerateResult struct {
	RunID    int64
	HTMLPath string
	PDFPath  string
}

// Run resolves the requested line items against the cache, renders the
// template, writes the output files, and records the run. The run row
// is the final step: a rendering or filesystem failure must not leave
// a dangling audit entry.
func (g *Generator) Run(params GenerateParams) (*GenerateResult, error) {
	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", params.OutputDir, err)
	}

	products, err := g.resolveProducts(params.Items, params.Language)
	if err != nil {
		return nil, err
	}

	html, err := render(params.TemplatePath, buildContext(products, params.Language, params.ValidityDate))
	if err != nil {
		return nil, err
	}

	stem := fmt.Sprintf("newsletter_%s_%s", params.Language, time.Now().UTC().Format("20060102_150405"))
	htmlPath := filepath.Join(params.OutputDir, stem+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write newsletter HTML: %w", err)
	}

	pdfPath := ""
	if params.GeneratePDF {
		pdfPath = filepath.Join(params.OutputDir, stem+".pdf")
		if err := g.pdfRenderer.Render(htmlPath, pdfPath); err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}
	}

	requested, err := json.Marshal(params.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode requested items: %w", err)
	}

	runID, err := g.runRepo.CreateRun(database.Run{
		Filename:       stem,
		TemplateName:   params.TemplateName,
		Language:       string(params.Language),
		ValidityDate:   params.ValidityDate,
		ProductsCount:  len(products),
		RequestedItems: string(requested),
		HTMLPath:       htmlPath,
		PDFPath:        pdfPath,
		OutputDir:      params.OutputDir,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Newsletter generated",
		"run_id", runID,
		"template", params.TemplateName,
		"language", params.Language,
		"products", len(products),
		"pdf", params.GeneratePDF)

	return &GenerateResult{RunID: runID, HTMLPath: htmlPath, PDFPath: pdfPath}, nil
}

// resolveProducts looks up each requested article in the cache.
// Unknown articles are dropped with a warning; an empty result is
// fatal, a newsletter must never render without products.
func (g *Generator) resolveProducts(items []LineItem, lang Language) ([]Product, error) {
	products := make([]Product, 0, len(items))

	for _, item := range items {
		cached, err := g.productRepo.GetProduct(item.ArticleNumber)
		if err != nil {
			return nil, err
		}
		if cached == nil {
			slog.Warn("Article not found in cache", "article_number", item.ArticleNumber)
			continue
		}
		products = append(products, Project(cached, item, lang))
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products found for the provided article numbers")
	}

	return products, nil
}

func buildContext(products []Product, lang Language, validityDate string) Context {
	totalAmount := decimal.Zero
	totalDiscount := decimal.Zero
	for _, p := range products {
		totalAmount = totalAmount.Add(p.TotalPrice)
		if p.Discount > 0 {
			saved := p.Price.Sub(p.DiscountedPrice).Mul(decimal.NewFromInt(int64(p.Quantity)))
			totalDiscount = totalDiscount.Add(saved)
		}
	}

	now := time.Now()

	return Context{
		Products:      products,
		TotalProducts: len(products),

		TotalAmount:          totalAmount,
		FormattedTotalAmount: FormatCurrency(totalAmount),

		TotalDiscountAmount:    totalDiscount,
		FormattedTotalDiscount: FormatCurrency(totalDiscount),

		ValidityDate:          validityDate,
		FormattedValidityDate: lang.FormatValidityDate(validityDate),

		Language:       lang,
		GenerationDate: lang.FormatDate(now),
		GenerationTime: now.Format("15:04"),
	}
}

func render(templatePath string, ctx Context) (string, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	tmpl, err := template.New(filepath.Base(templatePath)).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("invalid template syntax in %s: %w", templatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templatePath, err)
	}

	return buf.String(), nil
}
