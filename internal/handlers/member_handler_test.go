package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"family-backend/internal/handlers"
	"family-backend/internal/health"
	apihttp "family-backend/internal/http"
	"family-backend/internal/models"
	"family-backend/internal/services"
	"family-backend/internal/storage"
)

func ref(s string) *string { return &s }

func newTestRouter(seed ...models.Member) (http.Handler, *storage.MemoryStore) {
	store := storage.NewMemoryStore(seed)
	service := services.NewMemberService(store, nil)
	checker := health.NewHealthChecker(store)
	router := apihttp.NewRouter(handlers.NewMemberHandler(service), handlers.NewMonitoringHandler(checker))
	return router, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestListMembers(t *testing.T) {
	router, _ := newTestRouter(
		models.Member{ID: "a", FullName: "A", Gender: models.GenderMale},
	)

	rec := doJSON(t, router, http.MethodGet, "/api/members", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var members []models.Member
	decode(t, rec, &members)
	if len(members) != 1 || members[0].ID != "a" {
		t.Fatalf("members = %+v", members)
	}
}

func TestListMembersEmptyIsArray(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/members", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("empty list body = %q, want JSON array", got)
	}
}

func TestCreateMember(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/members", models.Member{
		FullName: "Ravi", Gender: models.GenderMale,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var stored models.Member
	decode(t, rec, &stored)
	if stored.ID == "" {
		t.Fatal("response has no generated id")
	}
}

func TestCreateMemberValidation(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/members", models.Member{
		FullName: "Ravi", Gender: "other",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateMemberDuplicate(t *testing.T) {
	router, _ := newTestRouter(
		models.Member{ID: "a", FullName: "A", Gender: models.GenderMale},
	)

	rec := doJSON(t, router, http.MethodPost, "/api/members", models.Member{
		ID: "a", FullName: "Other", Gender: models.GenderMale,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateMember(t *testing.T) {
	router, store := newTestRouter(
		models.Member{ID: "a", FullName: "A", Gender: models.GenderMale},
	)

	rec := doJSON(t, router, http.MethodPut, "/api/members/a", map[string]*string{
		"full_name": ref("Renamed"),
		"notes":     nil,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	members, _ := store.Load(context.Background())
	if members[0].FullName != "Renamed" {
		t.Fatalf("store = %+v", members[0])
	}
}

func TestUpdateMemberNotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPut, "/api/members/missing", map[string]*string{
		"full_name": ref("X"),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteMemberIsIdempotent(t *testing.T) {
	router, _ := newTestRouter(
		models.Member{ID: "a", FullName: "A", Gender: models.GenderMale},
	)

	if rec := doJSON(t, router, http.MethodDelete, "/api/members/a", nil); rec.Code != http.StatusOK {
		t.Fatalf("first delete status = %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodDelete, "/api/members/a", nil); rec.Code != http.StatusOK {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestMemberRelations(t *testing.T) {
	father := models.Member{ID: "father", FullName: "Father", Gender: models.GenderMale, SpouseID: ref("mother")}
	mother := models.Member{ID: "mother", FullName: "Mother", Gender: models.GenderFemale, SpouseID: ref("father")}
	self := models.Member{ID: "self", FullName: "Self", Gender: models.GenderMale, FatherID: ref("father"), MotherID: ref("mother")}
	sister := models.Member{ID: "sister", FullName: "Sister", Gender: models.GenderFemale, FatherID: ref("father")}
	router, _ := newTestRouter(father, mother, self, sister)

	rec := doJSON(t, router, http.MethodGet, "/api/members/self/relations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var rel handlers.MemberRelations
	decode(t, rec, &rel)
	if rel.Member.ID != "self" {
		t.Fatalf("member = %+v", rel.Member)
	}
	if rel.Father == nil || rel.Father.ID != "father" {
		t.Fatalf("father = %+v", rel.Father)
	}
	if rel.Mother == nil || rel.Mother.ID != "mother" {
		t.Fatalf("mother = %+v", rel.Mother)
	}
	if len(rel.Siblings) != 1 || rel.Siblings[0].ID != "sister" {
		t.Fatalf("siblings = %+v", rel.Siblings)
	}
	if rel.Children == nil {
		t.Fatal("children is null, want empty array")
	}
}

func TestMemberRelationsNotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/members/missing/relations", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMemberOptionsForNewMember(t *testing.T) {
	router, _ := newTestRouter(
		models.Member{ID: "m1", FullName: "M1", Gender: models.GenderMale},
		models.Member{ID: "f1", FullName: "F1", Gender: models.GenderFemale},
	)

	rec := doJSON(t, router, http.MethodGet, "/api/members/new/options?gender=male", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var opts handlers.MemberOptions
	decode(t, rec, &opts)
	if len(opts.Fathers) != 1 || opts.Fathers[0].ID != "m1" {
		t.Fatalf("fathers = %+v", opts.Fathers)
	}
	if len(opts.Mothers) != 1 || opts.Mothers[0].ID != "f1" {
		t.Fatalf("mothers = %+v", opts.Mothers)
	}
	if len(opts.Spouses) != 1 || opts.Spouses[0].ID != "f1" {
		t.Fatalf("spouses = %+v", opts.Spouses)
	}
}

func TestMemberOptionsExcludeSelection(t *testing.T) {
	router, _ := newTestRouter(
		models.Member{ID: "self", FullName: "Self", Gender: models.GenderMale},
		models.Member{ID: "m1", FullName: "M1", Gender: models.GenderMale},
		models.Member{ID: "f1", FullName: "F1", Gender: models.GenderFemale},
	)

	// f1 selected as spouse is excluded from the mother picker, and a
	// selected father is excluded from the spouse picker.
	rec := doJSON(t, router, http.MethodGet, "/api/members/self/options?gender=male&spouse_id=f1&father_id=m1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var opts handlers.MemberOptions
	decode(t, rec, &opts)
	for _, m := range opts.Mothers {
		if m.ID == "f1" {
			t.Fatal("selected spouse offered as mother")
		}
	}
	for _, m := range opts.Spouses {
		if m.ID == "m1" {
			t.Fatal("selected father offered as spouse")
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var status map[string]interface{}
	decode(t, rec, &status)
	if status["status"] != "healthy" {
		t.Fatalf("health = %+v", status)
	}
}
