package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrStaffNotFound = errors.New("staff not found")

// InMemoryStaffRepository holds the staff accounts given in configuration.
type InMemoryStaffRepository struct {
	staff map[string]*Staff
}

func NewInMemoryStaffRepository() *InMemoryStaffRepository {
	return &InMemoryStaffRepository{
		staff: make(map[string]*Staff),
	}
}

func (r *InMemoryStaffRepository) Save(s *Staff) {
	// Generate UUID if not already set
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.staff[strings.ToLower(s.Username)] = s
}

func (r *InMemoryStaffRepository) FindByUsername(username string) (*Staff, error) {
	s, ok := r.staff[strings.ToLower(username)]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return s, nil
}
