package domain

import "time"

// OrderItem is one (product, quantity) pair in an order request.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is what gets posted to the backend at submission time.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

// BuildOrderRequest derives the request from the cart lines captured at
// submission time.
func BuildOrderRequest(lines []CartLine) OrderRequest {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderRequest{Items: items}
}

// Order is the server-acknowledged result of a submission.
type Order struct {
	ID          int64     `json:"orderId"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}
