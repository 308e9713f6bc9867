// Package payment implements the fee payment flow: validation, the
// simulated gateway call, and the atomic completed-payment write.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"feeportal/internal/student"
)

// DefaultSuccessRate is the simulated gateway approval probability
const DefaultSuccessRate = 0.9

var (
	// ErrMissingFields is returned when method or amount is absent
	ErrMissingFields = errors.New("payment method and amount are required")
	// ErrInvalidMethod is returned for a method outside the accepted set
	ErrInvalidMethod = errors.New("invalid payment method")
	// ErrInvalidCard is returned when a card payment carries a card
	// number shorter than the coarse minimum
	ErrInvalidCard = errors.New("valid card number is required")
)

// ReceiptNotifier sends a receipt after a successful payment. Delivery
// is best effort and never affects the payment outcome.
type ReceiptNotifier interface {
	SendPaymentReceipt(to, name, transactionID string, amount int64, method string) error
}

// Service defines the payment operations
type Service interface {
	Process(ctx context.Context, studentID string, req ProcessRequest) (*Receipt, error)
	History(ctx context.Context, studentID string) ([]Payment, error)
}

type service struct {
	store    Store
	students student.Repository
	gateway  Gateway
	notifier ReceiptNotifier
}

// NewService creates a new payment service. notifier may be nil to
// disable receipt emails.
func NewService(store Store, students student.Repository, gateway Gateway, notifier ReceiptNotifier) Service {
	return &service{store: store, students: students, gateway: gateway, notifier: notifier}
}

// Process validates the request, simulates the gateway charge, and on
// success records the payment and fee flag atomically. A declined
// charge leaves no record and no state change. Repeat payments for an
// already-paid student are accepted and recorded.
func (s *service) Process(ctx context.Context, studentID string, req ProcessRequest) (*Receipt, error) {
	if req.PaymentMethod == "" || req.Amount <= 0 {
		return nil, ErrMissingFields
	}
	if !validMethod(req.PaymentMethod) {
		return nil, ErrInvalidMethod
	}
	if req.PaymentMethod == MethodCard && len(req.CardNumber) < minCardNumberLength {
		return nil, ErrInvalidCard
	}

	if err := s.gateway.Charge(ctx, req.PaymentMethod, req.Amount); err != nil {
		return nil, err
	}

	p := &Payment{
		ID:            uuid.New().String(),
		StudentID:     studentID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: newTransactionID(),
		Status:        StatusCompleted,
		CreatedAt:     time.Now(),
	}

	if err := s.store.RecordCompleted(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.notifyReceipt(ctx, p)

	return &Receipt{
		Message:       "Payment processed successfully",
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
	}, nil
}

// History returns the student's payments, newest first
func (s *service) History(ctx context.Context, studentID string) ([]Payment, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// notifyReceipt sends the receipt email. Failures are logged, never
// surfaced: the payment has already committed.
func (s *service) notifyReceipt(ctx context.Context, p *Payment) {
	if s.notifier == nil {
		return
	}

	owner, err := s.students.FindByID(ctx, p.StudentID)
	if err != nil {
		slog.Warn("Failed to load student for receipt email", "student_id", p.StudentID, "error", err)
		return
	}

	if err := s.notifier.SendPaymentReceipt(owner.Email, owner.Name, p.TransactionID, p.Amount, p.PaymentMethod); err != nil {
		slog.Warn("Failed to send receipt email", "student_id", p.StudentID, "error", err)
	}
}

// newTransactionID returns a collision-resistant transaction id of the
// form TXN_<millis>_<hex>. The random suffix is 96 bits from crypto/rand.
func newTransactionID() string {
	suffix := make([]byte, 12)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
