package lexeme

import "testing"

func TestAddDeduplicates(t *testing.T) {
	db := NewDatabase()

	first := db.Add("pi")
	second := db.Add("pi")
	if first != second {
		t.Fatalf("Add not idempotent: first=%d second=%d", first, second)
	}

	other := db.Add("tau")
	if other == first {
		t.Fatalf("distinct text got the same id: %d", other)
	}
}

func TestAddEmptyReturnsNone(t *testing.T) {
	db := NewDatabase()
	if id := db.Add(""); id != None {
		t.Fatalf("Add(\"\") = %d, want None", id)
	}
}

func TestFindAndGet(t *testing.T) {
	db := NewDatabase()
	id := db.Add("radius")

	got, ok := db.Find("radius")
	if !ok || got != id {
		t.Fatalf("Find(\"radius\") = (%d, %v), want (%d, true)", got, ok, id)
	}

	if text := db.Get(id); text != "radius" {
		t.Fatalf("Get(%d) = %q, want %q", id, text, "radius")
	}

	if _, ok := db.Find("missing"); ok {
		t.Fatalf("Find(\"missing\") reported found")
	}
}

func TestLen(t *testing.T) {
	db := NewDatabase()
	db.Add("a")
	db.Add("b")
	db.Add("a")
	if got := db.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}
