package domain

// CartItem is a line in the shopping cart. Name, Price and Image are
// snapshotted from the catalog when the item is added; later catalog
// changes do not touch existing lines.
type CartItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Summary holds the priced totals for the current cart contents.
// The four monetary fields are rounded to two decimals independently.
type Summary struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}
