package domain

import "testing"

func addresses(defaults ...bool) []Address {
	items := make([]Address, 0, len(defaults))
	for i, isDefault := range defaults {
		items = append(items, Address{
			ID:        string(rune('a' + i)),
			UserID:    "user-1",
			IsDefault: isDefault,
		})
	}
	return items
}

func TestHasDefault(t *testing.T) {
	if HasDefault[Address](addresses(false, false)) {
		t.Fatal("no item carries the flag, HasDefault must be false")
	}
	if !HasDefault[Address](addresses(false, true)) {
		t.Fatal("an item carries the flag, HasDefault must be true")
	}
	if HasDefault[Address](nil) {
		t.Fatal("an empty collection has no default")
	}
}

func TestNextDefault_SkipsRemovedItem(t *testing.T) {
	items := addresses(true, false, false)

	nextID, ok := NextDefault[Address](items, "a")
	if !ok {
		t.Fatal("siblings remain, a successor must be chosen")
	}
	if nextID != "b" {
		t.Fatalf("expected first remaining sibling %q, got %q", "b", nextID)
	}
}

func TestNextDefault_NoSiblings(t *testing.T) {
	items := addresses(true)

	if _, ok := NextDefault[Address](items, "a"); ok {
		t.Fatal("no successor exists when the only item is removed")
	}
}

func TestPhonesShareDefaultSemantics(t *testing.T) {
	phones := []Phone{
		{ID: "p1", UserID: "user-1", Number: "+2010"},
		{ID: "p2", UserID: "user-1", Number: "+2011", IsDefault: true},
	}

	if !HasDefault[Phone](phones) {
		t.Fatal("p2 carries the flag, HasDefault must be true")
	}

	nextID, ok := NextDefault[Phone](phones, "p1")
	if !ok || nextID != "p2" {
		t.Fatalf("expected successor %q, got %q (ok=%v)", "p2", nextID, ok)
	}
}
