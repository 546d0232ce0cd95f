package marker

import "testing"

func TestPosition_Compare(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected int
	}{
		{Pos(0, 0), Pos(0, 0), 0},
		{Pos(0, 0), Pos(0, 1), -1},
		{Pos(0, 1), Pos(0, 0), 1},
		{Pos(0, 5), Pos(1, 0), -1},
		{Pos(1, 0), Pos(0, 5), 1},
		{Pos(3, 7), Pos(3, 7), 0},
	}

	for _, tt := range tests {
		result := tt.a.Compare(tt.b)
		if result != tt.expected {
			t.Errorf("Compare(%v, %v): got %d, want %d", tt.a, tt.b, result, tt.expected)
		}
	}
}

func TestPosition_Predicates(t *testing.T) {
	a, b := Pos(1, 2), Pos(1, 3)

	if !a.Before(b) || a.After(b) {
		t.Errorf("expected %v before %v", a, b)
	}
	if !b.After(a) || b.Before(a) {
		t.Errorf("expected %v after %v", b, a)
	}
	if !a.BeforeOrEqual(a) || !a.AfterOrEqual(a) {
		t.Error("position should be <= and >= itself")
	}
	if a.Before(a) || a.After(a) {
		t.Error("position should not be strictly before or after itself")
	}
	if !a.Equal(Pos(1, 2)) || a.Equal(b) {
		t.Error("Equal should compare both components")
	}
}

func TestPosition_String(t *testing.T) {
	if got := Pos(0, 0).String(); got != "1:1" {
		t.Errorf("String(): got %q, want %q", got, "1:1")
	}
	if got := Pos(9, 4).String(); got != "10:5" {
		t.Errorf("String(): got %q, want %q", got, "10:5")
	}
}
