package domain

import "time"

const PaymentStatusSucceeded = "succeeded"

// Payment is the append-only record of a completed checkout as reported by the client.
type Payment struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Amount        float64        `json:"amount"`
	TransactionID string         `json:"transaction_id,omitempty"`
	ClassIDs      []string       `json:"class_ids"`
	CartIDs       []string       `json:"cart_ids"`
	Method        map[string]any `json:"method,omitempty"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}
