package newsletter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawLineItem distinguishes absent fields from explicit zeros so that
// defaults apply only to omissions.
type rawLineItem struct {
	ArticleNumber string `json:"article_number" yaml:"article_number"`
	Discount      *int   `json:"discount" yaml:"discount"`
	Quantity      *int   `json:"quantity" yaml:"quantity"`
}

// LoadLineItems reads a products request file. JSON is the primary
// format; .yaml/.yml files decode into the same structure. Any
// malformed entry rejects the entire batch with the offending index.
func LoadLineItems(path string) ([]LineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read products file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseLineItemsYAML(data)
	default:
		return ParseLineItems(data)
	}
}

// ParseLineItems decodes and validates a JSON request batch.
func ParseLineItems(data []byte) ([]LineItem, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("products file must contain a JSON array: %w", err)
	}

	raws := make([]rawLineItem, 0, len(elements))
	for i, element := range elements {
		var raw rawLineItem
		if err := json.Unmarshal(element, &raw); err != nil {
			return nil, fmt.Errorf("product at index %d must be an object: %w", i, err)
		}
		raws = append(raws, raw)
	}

	return validateLineItems(raws)
}

func parseLineItemsYAML(data []byte) ([]LineItem, error) {
	var raws []rawLineItem
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("products file must contain a YAML sequence of objects: %w", err)
	}
	return validateLineItems(raws)
}

func validateLineItems(raws []rawLineItem) ([]LineItem, error) {
	items := make([]LineItem, 0, len(raws))

	for i, raw := range raws {
		articleNumber := strings.TrimSpace(raw.ArticleNumber)
		if articleNumber == "" {
			return nil, fmt.Errorf("product at index %d missing article_number", i)
		}

		discount := 0
		if raw.Discount != nil {
			discount = *raw.Discount
		}
		if discount < 0 || discount > 100 {
			return nil, fmt.Errorf("product at index %d has invalid discount: %d", i, discount)
		}

		quantity := 1
		if raw.Quantity != nil {
			quantity = *raw.Quantity
		}
		if quantity < 1 {
			return nil, fmt.Errorf("product at index %d has invalid quantity: %d", i, quantity)
		}

		items = append(items, LineItem{
			ArticleNumber: articleNumber,
			Discount:      discount,
			Quantity:      quantity,
		})
	}

	return items, nil
}
