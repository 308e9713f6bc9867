package payment

import (
	"context"
	"errors"
	"sort"
	"sync"

	"feeportal/internal/student"
)

// errRecordFailed is the injected storage failure used by tests
var errRecordFailed = errors.New("payment store failure")

// MemoryStore is an in-memory Store for tests. It mirrors the
// all-or-nothing contract of RecordCompleted: when FailRecord is set,
// neither the payment nor the fee flag is written.
type MemoryStore struct {
	mu       sync.Mutex
	payments []Payment
	students *student.MemoryRepository

	FailRecord bool
}

// NewMemoryStore creates an in-memory payment store over the given
// student repository.
func NewMemoryStore(students *student.MemoryRepository) *MemoryStore {
	return &MemoryStore{students: students}
}

func (s *MemoryStore) RecordCompleted(ctx context.Context, p *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRecord {
		return errRecordFailed
	}

	if _, err := s.students.SetFeesPaid(ctx, p.StudentID); err != nil {
		return err
	}
	s.payments = append(s.payments, *p)
	return nil
}

func (s *MemoryStore) ListByStudent(ctx context.Context, studentID string) ([]Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Payment{}
	for _, p := range s.payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Count returns the number of recorded payments
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}
