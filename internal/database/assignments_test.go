package database

import "testing"

func TestLockOrder(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		wantA, wantB string
	}{
		{"already ascending", "vehicle-a", "vehicle-b", "vehicle-a", "vehicle-b"},
		{"descending swapped", "vehicle-b", "vehicle-a", "vehicle-a", "vehicle-b"},
		{"equal ids", "vehicle-a", "vehicle-a", "vehicle-a", "vehicle-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := lockOrder(tt.a, tt.b)
			if gotA != tt.wantA || gotB != tt.wantB {
				t.Errorf("lockOrder(%q, %q) = (%q, %q), want (%q, %q)",
					tt.a, tt.b, gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

// Assigning a spare and releasing it touch the same two rows from opposite
// directions; both handlers must take their locks in the same order no matter
// which side of the pair they start from.
func TestLockOrderSymmetric(t *testing.T) {
	a1, b1 := lockOrder("breakdown-7", "spare-3")
	a2, b2 := lockOrder("spare-3", "breakdown-7")
	if a1 != a2 || b1 != b2 {
		t.Errorf("lock order depends on argument order: (%q,%q) vs (%q,%q)", a1, b1, a2, b2)
	}
}
