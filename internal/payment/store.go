package payment

import "context"

// Store persists payment records. RecordCompleted is the transactional
// boundary required by the payment flow: the payment row and the
// student's fee flag must commit together or not at all.
type Store interface {
	RecordCompleted(ctx context.Context, p *Payment) error
	ListByStudent(ctx context.Context, studentID string) ([]Payment, error)
}
