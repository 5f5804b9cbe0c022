package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"family-backend/internal/dates"
	"family-backend/internal/family"
	"family-backend/internal/models"
	"family-backend/internal/services"

	"github.com/gorilla/mux"
)

// MemberHandler exposes the member CRUD and relationship queries over HTTP.
type MemberHandler struct {
	Service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{Service: service}
}

// List returns all family members from a fresh load.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.ListAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load family members: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if members == nil {
		members = []models.Member{}
	}

	writeJSON(w, http.StatusOK, members)
}

// Create adds a new family member.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var candidate models.Member
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stored, err := h.Service.Add(r.Context(), candidate)
	if err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// Update merges a partial field set onto an existing member.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	patch, err := models.DecodePatch(body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Update(r.Context(), id, patch); err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Family member updated successfully",
	})
}

// Delete removes a family member. Deleting an unknown id still succeeds.
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Family member deleted successfully",
	})
}

// MemberRelations is the detail-screen payload: the member plus its full
// derived relationship closure.
type MemberRelations struct {
	Member        models.Member        `json:"member"`
	Age           *int                 `json:"age,omitempty"`
	Father        *models.Member       `json:"father"`
	Mother        *models.Member       `json:"mother"`
	Spouse        *models.Member       `json:"spouse"`
	Children      []models.Member      `json:"children"`
	Siblings      []models.Member      `json:"siblings"`
	Grandparents  family.Grandparents  `json:"grandparents"`
	Grandchildren family.Grandchildren `json:"grandchildren"`
}

// Relations resolves the relationship closure for one member.
func (h *MemberHandler) Relations(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := h.Service.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "Failed to load family members: "+err.Error(), http.StatusInternalServerError)
		return
	}
	m := snap.FindByID(id)
	if m == nil {
		http.Error(w, "Family member not found", http.StatusNotFound)
		return
	}

	parents := snap.Parents(id)
	rel := MemberRelations{
		Member:        *m,
		Father:        parents.Father,
		Mother:        parents.Mother,
		Spouse:        snap.Spouse(id),
		Children:      emptyIfNil(snap.Children(id)),
		Siblings:      emptyIfNil(snap.Siblings(id)),
		Grandparents:  snap.Grandparents(id),
		Grandchildren: snap.Grandchildren(id),
	}
	if age, ok := dates.Age(m.BirthDate); ok {
		rel.Age = &age
	}

	writeJSON(w, http.StatusOK, rel)
}

// MemberOptions lists the candidates an edit form may offer for each
// relationship picker.
type MemberOptions struct {
	Fathers []models.Member `json:"fathers"`
	Mothers []models.Member `json:"mothers"`
	Spouses []models.Member `json:"spouses"`
}

// Options returns eligible father/mother/spouse candidates for the member.
// The add form uses id "new"; query parameters carry the form's unsaved
// selections (gender, father_id, mother_id, spouse_id).
func (h *MemberHandler) Options(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "new" {
		id = ""
	}

	snap, err := h.Service.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "Failed to load family members: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sel := family.PickerSelection{
		Gender:   r.URL.Query().Get("gender"),
		FatherID: queryRef(r, "father_id"),
		MotherID: queryRef(r, "mother_id"),
		SpouseID: queryRef(r, "spouse_id"),
	}

	// Defaults for the edit form come from the stored record.
	if m := snap.FindByID(id); m != nil {
		if sel.Gender == "" {
			sel.Gender = m.Gender
		}
		if sel.FatherID == nil && !r.URL.Query().Has("father_id") {
			sel.FatherID = m.FatherID
		}
		if sel.MotherID == nil && !r.URL.Query().Has("mother_id") {
			sel.MotherID = m.MotherID
		}
		if sel.SpouseID == nil && !r.URL.Query().Has("spouse_id") {
			sel.SpouseID = m.SpouseID
		}
	}

	opts := MemberOptions{
		Fathers: emptyIfNil(snap.EligibleFathers(id, sel)),
		Mothers: emptyIfNil(snap.EligibleMothers(id, sel)),
		Spouses: emptyIfNil(snap.EligibleSpouses(id, sel)),
	}

	writeJSON(w, http.StatusOK, opts)
}

// writeMutationError maps engine errors onto HTTP status codes.
func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrDuplicateID):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "Failed to save family members: "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryRef(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func emptyIfNil(members []models.Member) []models.Member {
	if members == nil {
		return []models.Member{}
	}
	return members
}
