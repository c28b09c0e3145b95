package api

type runSummary struct {
	ID            int64  `json:"id"`
	Filename      string `json:"filename"`
	TemplateName  string `json:"template_name"`
	Language      string `json:"language"`
	ProductsCount int    `json:"products_count"`
	HTMLPath      string `json:"html_path"`
	CreatedAt     string `json:"created_at"`
}

type runDetail struct {
	runSummary
	ValidityDate      string        `json:"validity_date,omitempty"`
	PDFPath           string        `json:"pdf_path,omitempty"`
	OutputDir         string        `json:"output_dir"`
	RequestedItems    []requestItem `json:"requested_items,omitempty"`
	RequestedItemsRaw string        `json:"requested_items_raw,omitempty"`
}

type requestItem struct {
	ArticleNumber string `json:"article_number"`
	Discount      int    `json:"discount"`
	Quantity      int    `json:"quantity"`
}

type productDetail struct {
	ArticleNumber string `json:"article_number"`
	NameDE        string `json:"name_de"`
	NameEN        string `json:"name_en"`
	Category      string `json:"category,omitempty"`

	PriceDealer      string `json:"price_dealer,omitempty"`
	PriceRetailNet   string `json:"price_retail_net,omitempty"`
	PriceRetailVAT   string `json:"price_retail_vat,omitempty"`
	PriceRetailGross string `json:"price_retail_gross,omitempty"`

	Artist      string `json:"artist,omitempty"`
	Label       string `json:"label,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`

	MainImageURL   string   `json:"main_image_url,omitempty"`
	DetailImages   []string `json:"detail_images,omitempty"`
	InventoryTotal int      `json:"inventory_total"`
	IsActive       bool     `json:"is_active"`
	UpdatedAt      string   `json:"updated_at"`
}
