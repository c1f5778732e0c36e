package returns

import "time"

// Return statuses. A return starts out requested and is either processed
// (refund issued) or cancelled. Only requested returns block deletion of
// the sale they reference.
const (
	StatusRequested = "requested"
	StatusProcessed = "processed"
	StatusCancelled = "cancelled"
)

// Return represents a product return referencing a sale.
type Return struct {
	ID        string    `json:"id"`
	SaleID    string    `json:"sale_id"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
