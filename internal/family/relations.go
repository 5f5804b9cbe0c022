package family

import "family-backend/internal/models"

// Resolver functions derive the relationship closure for a member from the
// flat father/mother/spouse pointers. All of them are total: unknown or
// dangling ids resolve to nil or an empty list, never a panic.

// Parents holds a member's direct parents. Either side may be nil.
type Parents struct {
	Father *models.Member `json:"father"`
	Mother *models.Member `json:"mother"`
}

// GrandparentSide holds one grandparent pair.
type GrandparentSide struct {
	Grandfather *models.Member `json:"grandfather"`
	Grandmother *models.Member `json:"grandmother"`
}

// Grandparents holds both grandparent pairs: paternal (father's parents) and
// maternal (mother's parents).
type Grandparents struct {
	Paternal GrandparentSide `json:"paternal"`
	Maternal GrandparentSide `json:"maternal"`
}

// Grandchildren holds grandchildren partitioned by the sex of the member's
// child they descend through: paternal grandchildren are children of the
// member's sons (matched by father_id), maternal grandchildren are children
// of the member's daughters (matched by mother_id). The partition follows the
// sex of the intermediate child, not of the grandchild.
type Grandchildren struct {
	Paternal []models.Member `json:"paternal"`
	Maternal []models.Member `json:"maternal"`
}

// Parents resolves the direct parents of the given member.
func (s *Snapshot) Parents(id string) Parents {
	m := s.FindByID(id)
	if m == nil {
		return Parents{}
	}
	return Parents{
		Father: s.Lookup(m.FatherID),
		Mother: s.Lookup(m.MotherID),
	}
}

// Spouse resolves the spouse of the given member, or nil.
func (s *Snapshot) Spouse(id string) *models.Member {
	m := s.FindByID(id)
	if m == nil {
		return nil
	}
	return s.Lookup(m.SpouseID)
}

// Children returns all members that record the given member as father or
// mother, in storage order.
func (s *Snapshot) Children(id string) []models.Member {
	var out []models.Member
	for _, m := range s.members {
		if refEquals(m.FatherID, id) || refEquals(m.MotherID, id) {
			out = append(out, m)
		}
	}
	return out
}

// Siblings returns all other members that share a non-null father or a
// non-null mother with the given member. A parent slot both members leave
// empty never counts as shared; a match on either parent qualifies (full and
// half siblings alike).
func (s *Snapshot) Siblings(id string) []models.Member {
	cur := s.FindByID(id)
	if cur == nil {
		return nil
	}
	var out []models.Member
	for _, m := range s.members {
		if m.ID == id {
			continue
		}
		sameFather := m.FatherID != nil && cur.FatherID != nil && *m.FatherID == *cur.FatherID
		sameMother := m.MotherID != nil && cur.MotherID != nil && *m.MotherID == *cur.MotherID
		if sameFather || sameMother {
			out = append(out, m)
		}
	}
	return out
}

// Grandparents resolves both grandparent pairs, null-propagating through a
// missing or dangling father/mother.
func (s *Snapshot) Grandparents(id string) Grandparents {
	p := s.Parents(id)
	var g Grandparents
	if p.Father != nil {
		g.Paternal.Grandfather = s.Lookup(p.Father.FatherID)
		g.Paternal.Grandmother = s.Lookup(p.Father.MotherID)
	}
	if p.Mother != nil {
		g.Maternal.Grandfather = s.Lookup(p.Mother.FatherID)
		g.Maternal.Grandmother = s.Lookup(p.Mother.MotherID)
	}
	return g
}

// Grandchildren resolves grandchildren partitioned by the sex of the
// intermediate child. A son's children are matched by their father_id only,
// a daughter's by their mother_id only; the asymmetry is deliberate and
// matches the family-tree display rules.
func (s *Snapshot) Grandchildren(id string) Grandchildren {
	sons := make(map[string]bool)
	daughters := make(map[string]bool)
	for _, c := range s.Children(id) {
		switch c.Gender {
		case models.GenderMale:
			sons[c.ID] = true
		case models.GenderFemale:
			daughters[c.ID] = true
		}
	}

	var g Grandchildren
	for _, m := range s.members {
		if m.FatherID != nil && sons[*m.FatherID] {
			g.Paternal = append(g.Paternal, m)
		}
		if m.MotherID != nil && daughters[*m.MotherID] {
			g.Maternal = append(g.Maternal, m)
		}
	}
	return g
}

// IsDescendant reports whether candidateID appears in the descendant closure
// of rootID, walking the children index breadth-first with a depth bound so a
// corrupted graph cannot loop forever.
func (s *Snapshot) IsDescendant(rootID, candidateID string) bool {
	const maxDepth = 64

	queue := []string{rootID}
	seen := map[string]bool{rootID: true}
	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next []string
		for _, id := range queue {
			for _, c := range s.Children(id) {
				if c.ID == candidateID {
					return true
				}
				if !seen[c.ID] {
					seen[c.ID] = true
					next = append(next, c.ID)
				}
			}
		}
		queue = next
	}
	return false
}

// PickerSelection carries the edit form's in-flight choices so candidate
// filtering can react to unsaved selections, plus the member's own gender for
// spouse filtering.
type PickerSelection struct {
	Gender   string
	FatherID *string
	MotherID *string
	SpouseID *string
}

// EligibleFathers returns the members that may be chosen as father for the
// given member: male, not the member itself, not one of the member's own
// children, and not the currently selected spouse.
func (s *Snapshot) EligibleFathers(memberID string, sel PickerSelection) []models.Member {
	return s.eligibleParents(memberID, sel, models.GenderMale)
}

// EligibleMothers is the female counterpart of EligibleFathers.
func (s *Snapshot) EligibleMothers(memberID string, sel PickerSelection) []models.Member {
	return s.eligibleParents(memberID, sel, models.GenderFemale)
}

func (s *Snapshot) eligibleParents(memberID string, sel PickerSelection, gender string) []models.Member {
	var out []models.Member
	for _, m := range s.members {
		if m.ID == memberID || m.Gender != gender {
			continue
		}
		if s.isChildOf(m, memberID) {
			continue
		}
		if refEquals(sel.SpouseID, m.ID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// EligibleSpouses returns the members that may be chosen as spouse: opposite
// gender to the member, not the member itself, not a selected parent, and not
// one of the member's own children.
func (s *Snapshot) EligibleSpouses(memberID string, sel PickerSelection) []models.Member {
	var out []models.Member
	for _, m := range s.members {
		if m.ID == memberID || m.Gender == sel.Gender {
			continue
		}
		if refEquals(sel.FatherID, m.ID) || refEquals(sel.MotherID, m.ID) {
			continue
		}
		if s.isChildOf(m, memberID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// isChildOf reports whether m records memberID as a parent. memberID may be
// empty (add form, no id assigned yet), in which case nothing matches.
func (s *Snapshot) isChildOf(m models.Member, memberID string) bool {
	if memberID == "" {
		return false
	}
	return refEquals(m.FatherID, memberID) || refEquals(m.MotherID, memberID)
}

func refEquals(ref *string, id string) bool {
	return ref != nil && *ref == id
}
