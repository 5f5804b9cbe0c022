package models

import "encoding/json"

// Gender values for a family member. The picker UI only ever offers these two;
// everything else is rejected at the service layer.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Genders lists the allowed gender values.
var Genders = []string{GenderMale, GenderFemale}

// ValidGender reports whether g is one of the allowed gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// Member represents a single family-tree record.
//
// father_id, mother_id and spouse_id are the only stored relationship fields;
// siblings, grandparents and grandchildren are derived from them on read.
// A relationship id may point at a member that no longer exists (deletes do
// not cascade); readers must treat unresolved ids as unknown.
type Member struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	PhoneNumbers string  `json:"phone_numbers"`
	Address      string  `json:"address"`
	BirthDate    *string `json:"birth_date"`
	DeathDate    *string `json:"death_date"`
	FatherID     *string `json:"father_id"`
	MotherID     *string `json:"mother_id"`
	SpouseID     *string `json:"spouse_id"`
	Notes        *string `json:"notes"`
}

// Deceased reports whether the member has a recorded death date.
// Display-only; relationship derivation ignores it.
func (m *Member) Deceased() bool {
	return m.DeathDate != nil && *m.DeathDate != ""
}

// MemberPatch is a sparse update for a member: keys absent from the map are
// left untouched, keys mapped to nil clear the field. This mirrors the
// shallow-merge semantics the client sends ({...current, ...changes}).
// The "id" key is ignored; ids are immutable after creation.
type MemberPatch map[string]*string

// patchableFields is the set of member fields a patch may touch.
var patchableFields = map[string]bool{
	"full_name":     true,
	"gender":        true,
	"phone_numbers": true,
	"address":       true,
	"birth_date":    true,
	"death_date":    true,
	"father_id":     true,
	"mother_id":     true,
	"spouse_id":     true,
	"notes":         true,
}

// Has reports whether the patch includes the given field.
func (p MemberPatch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Known drops unknown keys (including "id") and returns the cleaned patch.
func (p MemberPatch) Known() MemberPatch {
	out := make(MemberPatch, len(p))
	for k, v := range p {
		if patchableFields[k] {
			out[k] = v
		}
	}
	return out
}

// DecodePatch parses a JSON object body into a MemberPatch.
// Non-string, non-null values fail decoding.
func DecodePatch(data []byte) (MemberPatch, error) {
	var p MemberPatch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p.Known(), nil
}
