package database

// ProductRepository is the write/read surface of the product cache.
type ProductRepository interface {
	UpsertProducts(products []Product) (int, error)
	GetProduct(articleNumber string) (*Product, error)
	GetProductCount() (int, error)
	GetActiveProductCount() (int, error)
}

// RunRepository records and queries newsletter generation runs.
type RunRepository interface {
	CreateRun(run Run) (int64, error)
	GetRun(id int64) (*Run, error)
	ListRuns(limit int) ([]Run, error)
	GetRunCount() (int, error)
}
