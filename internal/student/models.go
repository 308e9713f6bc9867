package student

import "time"

// Student represents a registered student. PasswordHash never leaves
// this package in any externally returned projection.
type Student struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	FeesPaid     bool
	CreatedAt    time.Time
}

// Projection is the externally visible view of a student
type Projection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	FeesPaid  bool      `json:"feesPaid"`
	CreatedAt time.Time `json:"createdAt"`
}

// Projection returns the safe external view of the student
func (s *Student) Projection() Projection {
	return Projection{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		FeesPaid:  s.FeesPaid,
		CreatedAt: s.CreatedAt,
	}
}

// Roster is the full student listing with derived paid/unpaid counts
type Roster struct {
	Students []Projection `json:"students"`
	Total    int          `json:"total"`
	Paid     int          `json:"paid"`
	Unpaid   int          `json:"unpaid"`
}

// NewRoster derives the counts from an ordered projection list
func NewRoster(students []Projection) Roster {
	roster := Roster{
		Students: students,
		Total:    len(students),
	}
	for _, s := range students {
		if s.FeesPaid {
			roster.Paid++
		} else {
			roster.Unpaid++
		}
	}
	return roster
}
