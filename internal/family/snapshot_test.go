package family

import (
	"testing"

	"family-backend/internal/models"
)

func TestSnapshotFindByID(t *testing.T) {
	snap := NewSnapshot([]models.Member{
		member("a", "A", models.GenderMale),
		member("b", "B", models.GenderFemale),
	})

	if m := snap.FindByID("b"); m == nil || m.FullName != "B" {
		t.Fatalf("FindByID(b) = %+v", m)
	}
	if m := snap.FindByID("missing"); m != nil {
		t.Fatalf("FindByID(missing) = %+v, want nil", m)
	}

	// FindByID returns a live pointer; writes are visible in All().
	snap.FindByID("a").FullName = "Renamed"
	if snap.All()[0].FullName != "Renamed" {
		t.Fatal("mutation through FindByID pointer not visible in All")
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot([]models.Member{member("a", "A", models.GenderMale)})

	if m := snap.Lookup(nil); m != nil {
		t.Fatalf("Lookup(nil) = %+v, want nil", m)
	}
	if m := snap.Lookup(ref("a")); m == nil || m.ID != "a" {
		t.Fatalf("Lookup(a) = %+v", m)
	}
	if m := snap.Lookup(ref("gone")); m != nil {
		t.Fatalf("Lookup(gone) = %+v, want nil", m)
	}
}

func TestSnapshotAppendAndRemove(t *testing.T) {
	snap := NewSnapshot([]models.Member{
		member("a", "A", models.GenderMale),
		member("b", "B", models.GenderFemale),
		member("c", "C", models.GenderMale),
	})

	snap.Append(member("d", "D", models.GenderFemale))
	if snap.Len() != 4 || snap.FindByID("d") == nil {
		t.Fatalf("after Append: Len=%d", snap.Len())
	}

	if !snap.Remove("b") {
		t.Fatal("Remove(b) = false, want true")
	}
	if snap.Remove("b") {
		t.Fatal("second Remove(b) = true, want false")
	}

	// Order of the remaining members is preserved and the index stays valid.
	if !sameIDs(snap.All(), "a", "c", "d") {
		t.Fatalf("after Remove: %v, want [a c d]", ids(snap.All()))
	}
	if m := snap.FindByID("d"); m == nil || m.ID != "d" {
		t.Fatalf("index stale after Remove: FindByID(d) = %+v", m)
	}
}
