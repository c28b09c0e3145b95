package newsletter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLineItems(t *testing.T) {
	data := []byte(`[
		{"article_number": "MTP102004", "discount": 10, "quantity": 2},
		{"article_number": "MTP102005"}
	]`)

	items, err := ParseLineItems(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	if items[0].Discount != 10 || items[0].Quantity != 2 {
		t.Errorf("Unexpected first item: %+v", items[0])
	}

	// Omitted fields get defaults: no discount, quantity one.
	if items[1].Discount != 0 || items[1].Quantity != 1 {
		t.Errorf("Expected defaults for second item, got %+v", items[1])
	}
}

func TestParseLineItems_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{
			name:     "root not an array",
			data:     `{"article_number": "MTP102004"}`,
			expected: "must contain a JSON array",
		},
		{
			name:     "element not an object",
			data:     `["MTP102004"]`,
			expected: "index 0 must be an object",
		},
		{
			name:     "missing article number",
			data:     `[{"article_number": "MTP102004"}, {"discount": 10}]`,
			expected: "index 1 missing article_number",
		},
		{
			name:     "blank article number",
			data:     `[{"article_number": "   "}]`,
			expected: "index 0 missing article_number",
		},
		{
			name:     "discount above hundred",
			data:     `[{"article_number": "MTP102004", "discount": 101}]`,
			expected: "index 0 has invalid discount: 101",
		},
		{
			name:     "negative discount",
			data:     `[{"article_number": "MTP102004", "discount": -1}]`,
			expected: "index 0 has invalid discount: -1",
		},
		{
			name:     "zero quantity",
			data:     `[{"article_number": "MTP102004", "quantity": 0}]`,
			expected: "index 0 has invalid quantity: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLineItems([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error containing %q, got %q", tt.expected, err)
			}
		})
	}
}

func TestParseLineItems_ExplicitZeroDiscount(t *testing.T) {
	items, err := ParseLineItems([]byte(`[{"article_number": "MTP102004", "discount": 0, "quantity": 1}]`))
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Discount != 0 {
		t.Errorf("Expected discount 0, got %d", items[0].Discount)
	}
}

func TestLoadLineItems_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	content := "- article_number: MTP102004\n  discount: 15\n- article_number: MTP102005\n  quantity: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadLineItems(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Discount != 15 || items[0].Quantity != 1 {
		t.Errorf("Unexpected first item: %+v", items[0])
	}
	if items[1].Discount != 0 || items[1].Quantity != 3 {
		t.Errorf("Unexpected second item: %+v", items[1])
	}
}

func TestLoadLineItems_MissingFile(t *testing.T) {
	if _, err := LoadLineItems(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
