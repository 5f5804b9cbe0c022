package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"family-backend/internal/models"
)

func ref(s string) *string { return &s }

func TestJSONFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "family-data.json")
	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore: %v", err)
	}
	ctx := context.Background()

	want := []models.Member{
		{ID: "a", FullName: "A", Gender: models.GenderMale, SpouseID: ref("b")},
		{ID: "b", FullName: "B", Gender: models.GenderFemale, SpouseID: ref("a"), BirthDate: ref("1987")},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("Load = %+v", got)
	}
	if got[1].BirthDate == nil || *got[1].BirthDate != "1987" {
		t.Fatalf("birth_date lost: %+v", got[1])
	}
	if got[0].MotherID != nil {
		t.Fatalf("unset ref came back non-null: %+v", got[0])
	}
}

func TestJSONFileStoreSeedsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family-data.json")
	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh store Load = %+v, want empty", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("data file not created: %v", err)
	}
	if string(data) != "[]\n" {
		t.Fatalf("seed content = %q", data)
	}
}

func TestJSONFileStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family-data.json")
	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore: %v", err)
	}
	os.Remove(path)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after file removed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load = %+v, want empty", got)
	}
}

func TestJSONFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family-data.json")
	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("Load of corrupt file = nil, want error")
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	seed := []models.Member{{ID: "a", FullName: "A", Gender: models.GenderMale}}
	store := NewMemoryStore(seed)
	ctx := context.Background()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Mutating the loaded slice must not leak into the store.
	got[0].FullName = "Changed"
	again, _ := store.Load(ctx)
	if again[0].FullName != "A" {
		t.Fatal("Load returned a shared slice")
	}

	// Same for the slice handed to Save.
	in := []models.Member{{ID: "b", FullName: "B", Gender: models.GenderFemale}}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in[0].FullName = "Changed"
	again, _ = store.Load(ctx)
	if again[0].FullName != "B" {
		t.Fatal("Save kept a shared slice")
	}
}
