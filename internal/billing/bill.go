package billing

import (
	"github.com/craftline/craftline-backend/internal/session"
)

// Item is one priced line on a bill. Bulk orders carry an explicit quantity;
// chat orders always have one unit per line.
type Item struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity,omitempty"`
}

// Record is the durable form of a confirmed order.
type Record struct {
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username"`
	Address   string `json:"address"`
	Timestamp string `json:"timestamp"`
	Items     []Item `json:"items"`
	Total     int64  `json:"total"`
	PaymentID string `json:"payment_id,omitempty"`
}

// Bill is a computed, not yet persisted, order summary.
type Bill struct {
	Items []Item
	Total int64
}

// Compute totals a cart. The total is always the sum of the line prices.
func Compute(lines []session.Line) Bill {
	bill := Bill{Items: make([]Item, 0, len(lines))}
	for _, line := range lines {
		bill.Items = append(bill.Items, Item{Name: line.Name, Price: line.Price})
		bill.Total += line.Price
	}
	return bill
}

// FullPaymentPaise is the chat-flow payment policy: the whole bill, in paise.
func FullPaymentPaise(total int64) int64 {
	return total * 100
}
