package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"family-backend/internal/family"
	"family-backend/internal/models"
	"family-backend/internal/monitoring"
	"family-backend/internal/storage"

	"github.com/google/uuid"
)

// MemberService is the mutation engine over the member snapshot. Every
// mutation loads the full collection fresh, repairs the bidirectional
// relationship links in memory, and writes the whole collection back in one
// Save. A mutex serializes mutations so two HTTP requests can never interleave
// their load/mutate/save round-trips.
//
// Invariants maintained across every mutation:
//   - spouse links are mirrored on both members, including breaking the
//     previous partner's link when a spouse is re-assigned;
//   - a missing parent is inferred from the other parent's recorded spouse,
//     but an explicitly supplied value is never overwritten;
//   - a member can never be its own father, mother or spouse, and a proposed
//     parent is rejected when it is a descendant of the member;
//   - deletes do not cascade: other members' references to a deleted id are
//     left dangling and resolvers treat them as unknown.
type MemberService struct {
	store storage.Store
	sync  *SyncService
	genID func() string
	mu    sync.Mutex
}

// NewMemberService creates the engine over the given store. syncService may
// be nil when no mirror is configured.
func NewMemberService(store storage.Store, syncService *SyncService) *MemberService {
	return &MemberService{
		store: store,
		sync:  syncService,
		genID: uuid.NewString,
	}
}

// ListAll returns the current collection from a fresh load.
func (s *MemberService) ListAll(ctx context.Context) ([]models.Member, error) {
	return s.store.Load(ctx)
}

// Snapshot loads the current collection and wraps it for relationship
// queries.
func (s *MemberService) Snapshot(ctx context.Context) (*family.Snapshot, error) {
	members, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return family.NewSnapshot(members), nil
}

// Add validates and stores a new member, repairing spouse links and inferring
// the missing parent before anything is persisted. An empty id gets a
// generated one; a supplied id must not collide with an existing member.
func (s *MemberService) Add(ctx context.Context, candidate models.Member) (models.Member, error) {
	if strings.TrimSpace(candidate.FullName) == "" {
		return models.Member{}, invalidf("full_name", "must not be empty")
	}
	if !models.ValidGender(candidate.Gender) {
		return models.Member{}, invalidf("gender", "must be %q or %q", models.GenderMale, models.GenderFemale)
	}
	if candidate.ID == "" {
		candidate.ID = s.genID()
	}

	candidate.BirthDate = normalizeRef(candidate.BirthDate)
	candidate.DeathDate = normalizeRef(candidate.DeathDate)
	candidate.Notes = normalizeRef(candidate.Notes)
	candidate.FatherID = normalizeRef(candidate.FatherID)
	candidate.MotherID = normalizeRef(candidate.MotherID)
	candidate.SpouseID = normalizeRef(candidate.SpouseID)

	for _, ref := range []struct {
		field string
		id    *string
	}{
		{"father_id", candidate.FatherID},
		{"mother_id", candidate.MotherID},
		{"spouse_id", candidate.SpouseID},
	} {
		if ref.id != nil && *ref.id == candidate.ID {
			return models.Member{}, invalidf(ref.field, "member cannot reference itself")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		monitoring.RecordMutation("add", err)
		return models.Member{}, err
	}
	if snap.FindByID(candidate.ID) != nil {
		monitoring.RecordMutation("add", ErrDuplicateID)
		return models.Member{}, ErrDuplicateID
	}

	snap.Append(candidate)
	m := snap.FindByID(candidate.ID)

	s.linkSpouse(snap, m)
	s.inferMissingParent(snap, m)

	if err := s.persist(ctx, snap); err != nil {
		monitoring.RecordMutation("add", err)
		return models.Member{}, err
	}
	monitoring.RecordMutation("add", nil)
	log.Printf("[Members] Added %s (%s)", m.FullName, m.ID)
	return *m, nil
}

// Update merges the patch onto an existing member and repairs relationship
// links affected by the change. Fields absent from the patch are untouched.
func (s *MemberService) Update(ctx context.Context, id string, patch models.MemberPatch) error {
	patch = patch.Known()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		monitoring.RecordMutation("update", err)
		return err
	}
	m := snap.FindByID(id)
	if m == nil {
		monitoring.RecordMutation("update", ErrNotFound)
		return ErrNotFound
	}

	if err := validatePatch(snap, id, patch); err != nil {
		monitoring.RecordMutation("update", err)
		return err
	}

	oldSpouse := cloneRef(m.SpouseID)
	applyPatch(m, patch)

	if patch.Has("spouse_id") {
		s.relinkSpouse(snap, m, oldSpouse)
	}

	// Clearing one parent clears the pair; the rules below skip a slot the
	// patch set explicitly.
	if patch.Has("father_id") {
		if m.FatherID == nil {
			if !patch.Has("mother_id") {
				m.MotherID = nil
			}
		} else if m.MotherID == nil {
			if f := snap.FindByID(*m.FatherID); f != nil && f.SpouseID != nil && *f.SpouseID != id {
				m.MotherID = cloneRef(f.SpouseID)
			}
		}
	}
	if patch.Has("mother_id") {
		if m.MotherID == nil {
			if !patch.Has("father_id") {
				m.FatherID = nil
			}
		} else if m.FatherID == nil {
			if mo := snap.FindByID(*m.MotherID); mo != nil && mo.SpouseID != nil && *mo.SpouseID != id {
				m.FatherID = cloneRef(mo.SpouseID)
			}
		}
	}

	if err := s.persist(ctx, snap); err != nil {
		monitoring.RecordMutation("update", err)
		return err
	}
	monitoring.RecordMutation("update", nil)
	log.Printf("[Members] Updated %s (%s)", m.FullName, m.ID)
	return nil
}

// Delete removes the member with the given id. Deleting an unknown id is a
// no-op: deletes are idempotent. References other members hold to the deleted
// id are deliberately left behind (no cascade).
func (s *MemberService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		monitoring.RecordMutation("delete", err)
		return err
	}
	if !snap.Remove(id) {
		monitoring.RecordMutation("delete", nil)
		return nil
	}

	if err := s.persist(ctx, snap); err != nil {
		monitoring.RecordMutation("delete", err)
		return err
	}
	monitoring.RecordMutation("delete", nil)
	log.Printf("[Members] Deleted %s", id)
	return nil
}

// persist writes the full snapshot back and hands a copy to the sync mirror.
// Mirror delivery is fire-and-forget; it never fails the mutation.
func (s *MemberService) persist(ctx context.Context, snap *family.Snapshot) error {
	members := snap.All()
	if err := s.store.Save(ctx, members); err != nil {
		return err
	}
	if s.sync != nil {
		s.sync.Enqueue(members)
	}
	return nil
}

// linkSpouse mirrors a new member's spouse link onto the target, clearing the
// target's previous partner so symmetry holds on all three records.
func (s *MemberService) linkSpouse(snap *family.Snapshot, m *models.Member) {
	target := snap.Lookup(m.SpouseID)
	if target == nil {
		return
	}
	if target.SpouseID != nil && *target.SpouseID != m.ID {
		if prev := snap.FindByID(*target.SpouseID); prev != nil && refBack(prev.SpouseID, target.ID) {
			prev.SpouseID = nil
		}
	}
	target.SpouseID = cloneRef(&m.ID)
}

// relinkSpouse repairs links after an update changed m's spouse_id from
// oldSpouse to its current value: the old partner's back-pointer is broken
// unconditionally, and a new partner (if any) is linked the same way Add
// links one.
func (s *MemberService) relinkSpouse(snap *family.Snapshot, m *models.Member, oldSpouse *string) {
	changed := oldSpouse != nil && (m.SpouseID == nil || *m.SpouseID != *oldSpouse)
	if changed {
		if old := snap.FindByID(*oldSpouse); old != nil {
			old.SpouseID = nil
		}
	}
	s.linkSpouse(snap, m)
}

// inferMissingParent fills in an unset mother from the father's recorded
// spouse (and symmetrically). It only ever writes into an empty slot.
func (s *MemberService) inferMissingParent(snap *family.Snapshot, m *models.Member) {
	if m.FatherID != nil && m.MotherID == nil {
		if f := snap.FindByID(*m.FatherID); f != nil && f.SpouseID != nil && *f.SpouseID != m.ID {
			m.MotherID = cloneRef(f.SpouseID)
		}
	}
	if m.MotherID != nil && m.FatherID == nil {
		if mo := snap.FindByID(*m.MotherID); mo != nil && mo.SpouseID != nil && *mo.SpouseID != m.ID {
			m.FatherID = cloneRef(mo.SpouseID)
		}
	}
}

// validatePatch rejects a patch before any field is merged.
func validatePatch(snap *family.Snapshot, id string, patch models.MemberPatch) error {
	if patch.Has("full_name") {
		v := patch["full_name"]
		if v == nil || strings.TrimSpace(*v) == "" {
			return invalidf("full_name", "must not be empty")
		}
	}
	if patch.Has("gender") {
		v := patch["gender"]
		if v == nil || !models.ValidGender(*v) {
			return invalidf("gender", "must be %q or %q", models.GenderMale, models.GenderFemale)
		}
	}
	for _, field := range []string{"father_id", "mother_id", "spouse_id"} {
		if !patch.Has(field) {
			continue
		}
		v := normalizeRef(patch[field])
		if v == nil {
			continue
		}
		if *v == id {
			return invalidf(field, "member cannot reference itself")
		}
		if field != "spouse_id" && snap.IsDescendant(id, *v) {
			return invalidf(field, "%s is a descendant of the member", *v)
		}
	}
	return nil
}

// applyPatch merges present fields onto the member. Nullable fields accept
// nil to clear; an empty string is treated the same as null.
func applyPatch(m *models.Member, patch models.MemberPatch) {
	for field, value := range patch {
		switch field {
		case "full_name":
			m.FullName = deref(value)
		case "gender":
			m.Gender = deref(value)
		case "phone_numbers":
			m.PhoneNumbers = deref(value)
		case "address":
			m.Address = deref(value)
		case "birth_date":
			m.BirthDate = normalizeRef(value)
		case "death_date":
			m.DeathDate = normalizeRef(value)
		case "notes":
			m.Notes = normalizeRef(value)
		case "father_id":
			m.FatherID = normalizeRef(value)
		case "mother_id":
			m.MotherID = normalizeRef(value)
		case "spouse_id":
			m.SpouseID = normalizeRef(value)
		}
	}
}

// normalizeRef collapses nil and "" into nil and copies the value otherwise.
func normalizeRef(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func cloneRef(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func refBack(ref *string, id string) bool {
	return ref != nil && *ref == id
}
