package student

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used in tests and as a
// storage fake for the service layers.
type MemoryRepository struct {
	mu       sync.Mutex
	students []*Student
	seq      map[string]int
	nextSeq  int
}

// NewMemoryRepository creates an empty in-memory credential store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{seq: make(map[string]int)}
}

func (r *MemoryRepository) FindByIdentifier(ctx context.Context, identifier string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.Email == identifier {
			out := *s
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.findLocked(id)
	if s == nil {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *MemoryRepository) Create(ctx context.Context, name, email, passwordHash string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.Email == email {
			return nil, ErrEmailTaken
		}
	}

	s := &Student{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.students = append(r.students, s)
	r.seq[s.ID] = r.nextSeq
	r.nextSeq++

	out := *s
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id, name, email string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.students {
		if other.Email == email && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	s := r.findLocked(id)
	if s == nil {
		return nil, ErrNotFound
	}
	s.Name = name
	s.Email = email

	out := *s
	return &out, nil
}

func (r *MemoryRepository) SetFeesPaid(ctx context.Context, id string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.findLocked(id)
	if s == nil {
		return nil, ErrNotFound
	}
	s.FeesPaid = true

	out := *s
	return &out, nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := make([]*Student, len(r.students))
	copy(sorted, r.students)

	// Newest first; insertion order breaks ties since CreatedAt has
	// limited resolution.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return r.seq[sorted[i].ID] > r.seq[sorted[j].ID]
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	projections := make([]Projection, 0, len(sorted))
	for _, s := range sorted {
		projections = append(projections, s.Projection())
	}
	return projections, nil
}

// Count returns the number of stored students
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students)
}

func (r *MemoryRepository) findLocked(id string) *Student {
	for _, s := range r.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}
