package charset

import "testing"

func TestAddContains(t *testing.T) {
	s := New()
	s.Add('a')
	s.Add('z')
	for _, b := range []byte("az") {
		if !s.Contains(b) {
			t.Errorf("expected %q to be a member", b)
		}
	}
	if s.Contains('b') {
		t.Error("did not expect 'b' to be a member")
	}
}

func TestAddRange(t *testing.T) {
	s := New()
	s.AddRange('0', '9')
	for b := byte('0'); b <= '9'; b++ {
		if !s.Contains(b) {
			t.Errorf("expected %q to be a member of [0-9]", b)
		}
	}
	if s.Contains('a') {
		t.Error("did not expect 'a' to be a member of [0-9]")
	}
}

func TestAddRangeEmptyWhenInverted(t *testing.T) {
	s := New()
	s.AddRange('z', 'a')
	if !s.IsEmpty() {
		t.Error("expected lo > hi range to add nothing")
	}
}

func TestRemove(t *testing.T) {
	s := New('a', 'b', 'c')
	s.Remove('b')
	if s.Contains('b') {
		t.Error("did not expect 'b' to remain a member after Remove")
	}
	if !s.Contains('a') || !s.Contains('c') {
		t.Error("expected 'a' and 'c' to remain members")
	}
}

func TestUnionAndNegate(t *testing.T) {
	a := New('a')
	b := New('b')
	u := a.Union(b)
	if !u.Contains('a') || !u.Contains('b') {
		t.Error("expected union to contain both members")
	}

	n := New().AddRange(0, 255).Negate()
	if !n.IsEmpty() {
		t.Error("expected negation of the full range to be empty")
	}
}

func TestIsEmpty(t *testing.T) {
	s := New()
	if !s.IsEmpty() {
		t.Error("expected freshly constructed set to be empty")
	}
	s.Add(0)
	if s.IsEmpty() {
		t.Error("expected set with byte 0 added to be non-empty")
	}
}
