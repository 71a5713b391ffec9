package appointment

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("Statuses() member %q reported invalid", s)
		}
	}
	for _, s := range []Status{"", "pending", "SCHEDULED", "done"} {
		if s.Valid() {
			t.Errorf("%q reported valid", s)
		}
	}
}

func TestStatusesCovered(t *testing.T) {
	if len(Statuses()) != 3 {
		t.Fatalf("enum has %d members, want 3", len(Statuses()))
	}
}
