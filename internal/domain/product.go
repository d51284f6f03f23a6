package domain

// ProductStatus mirrors the availability flag served by the catalog.
type ProductStatus string

const (
	ProductAvailable   ProductStatus = "AVAILABLE"
	ProductUnavailable ProductStatus = "UNAVAILABLE"
)

// Product is an immutable snapshot as served by the catalog. The terminal
// never mutates products; a snapshot is refreshed only by re-querying.
type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Price       int64         `json:"price"` // minor currency units
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	Category    string        `json:"category"`
	Image       []byte        `json:"image,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Sellable reports whether the product can be added to a cart. This is an
// advisory check against the last fetched snapshot; the backend re-validates
// stock at order submission.
func (p Product) Sellable() bool {
	return p.Status == ProductAvailable && p.Stock > 0
}

// Page is one page of catalog search results.
type Page struct {
	Items     []Product `json:"items"`
	Page      int       `json:"page"`
	Size      int       `json:"size"`
	TotalItem int       `json:"totalItem"`
}
