package family

import "family-backend/internal/models"

// Snapshot is the full in-memory set of members loaded for one mutation or
// query. It keeps the storage order for stable list rendering and an id index
// for O(1) lookup. A snapshot is not shared across goroutines; each operation
// builds its own from a fresh load.
type Snapshot struct {
	members []models.Member
	byID    map[string]int
}

// NewSnapshot builds a snapshot over the given members. The slice is taken
// over as-is; callers must not keep mutating it.
func NewSnapshot(members []models.Member) *Snapshot {
	s := &Snapshot{
		members: members,
		byID:    make(map[string]int, len(members)),
	}
	for i := range members {
		s.byID[members[i].ID] = i
	}
	return s
}

// FindByID returns a pointer into the snapshot for the given id, or nil when
// the id is unknown. Mutations through the pointer are visible in All().
func (s *Snapshot) FindByID(id string) *models.Member {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return &s.members[i]
}

// Lookup is a nil-safe FindByID for optional relationship ids.
func (s *Snapshot) Lookup(id *string) *models.Member {
	if id == nil {
		return nil
	}
	return s.FindByID(*id)
}

// All returns the members in storage order.
func (s *Snapshot) All() []models.Member {
	return s.members
}

// Len returns the number of members in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.members)
}

// Append adds a new member to the end of the snapshot and indexes it.
func (s *Snapshot) Append(m models.Member) {
	s.members = append(s.members, m)
	s.byID[m.ID] = len(s.members) - 1
}

// Remove deletes the member with the given id, preserving the order of the
// remaining members. It reports whether anything was removed.
func (s *Snapshot) Remove(id string) bool {
	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.members = append(s.members[:i], s.members[i+1:]...)
	delete(s.byID, id)
	for j := i; j < len(s.members); j++ {
		s.byID[s.members[j].ID] = j
	}
	return true
}
