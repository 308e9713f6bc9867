package payment

import "time"

// Payment methods accepted by the simulated gateway
const (
	MethodCard   = "card"
	MethodPaypal = "paypal"
	MethodBank   = "bank"
)

// StatusCompleted is the only status a persisted payment can have;
// failed attempts produce no record at all.
const StatusCompleted = "completed"

// minCardNumberLength is a coarse format check, not real card validation
const minCardNumberLength = 13

// Payment is a recorded successful payment. Amount is in the smallest
// currency unit.
type Payment struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	Amount        int64     `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Receipt confirms a successful simulated payment
type Receipt struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

// ProcessRequest is the request payload for processing a payment
type ProcessRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	CardNumber    string `json:"cardNumber"`
	Amount        int64  `json:"amount"`
}

func validMethod(method string) bool {
	switch method {
	case MethodCard, MethodPaypal, MethodBank:
		return true
	}
	return false
}
