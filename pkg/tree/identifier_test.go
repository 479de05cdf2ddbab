package tree

import "testing"

func TestIdentifierEqual(t *testing.T) {
	tests := []struct {
		a, b Identifier
		want bool
	}{
		{nil, Identifier{}, true},
		{Identifier{0}, Identifier{0}, true},
		{Identifier{0, 1}, Identifier{0, 1}, true},
		{Identifier{0, 1}, Identifier{0}, false},
		{Identifier{1}, Identifier{0}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIdentifierParent(t *testing.T) {
	parent, leaf, ok := Identifier{1, 0, 3}.Parent()
	if !ok || leaf != 3 || !parent.Equal(Identifier{1, 0}) {
		t.Errorf("Parent() = %v, %d, %v; want [1 0], 3, true", parent, leaf, ok)
	}

	parent, leaf, ok = Identifier{4}.Parent()
	if !ok || leaf != 4 || !parent.IsEmpty() {
		t.Errorf("Parent() of root = %v, %d, %v; want [], 4, true", parent, leaf, ok)
	}

	// Idempotent at the top.
	parent, _, ok = Identifier{}.Parent()
	if ok || !parent.IsEmpty() {
		t.Errorf("Parent() of empty = %v, %v; want [], false", parent, ok)
	}
}

func TestIdentifierParentDoesNotAlias(t *testing.T) {
	id := Identifier{1, 2, 3}
	parent, _, _ := id.Parent()
	parent[0] = 9
	if id[0] != 1 {
		t.Errorf("mutating parent changed the original: %v", id)
	}
}

func TestIdentifierChildDoesNotAlias(t *testing.T) {
	base := make(Identifier, 1, 8)
	a := base.Child(0)
	b := base.Child(1)
	if a[1] != 0 || b[1] != 1 {
		t.Errorf("siblings alias: a=%v b=%v", a, b)
	}
}

func TestIdentifierKeyRoundTrip(t *testing.T) {
	for _, id := range []Identifier{{}, {0}, {12, 0, 7}} {
		key := id.Key()
		if back := ParseKey(key); !back.Equal(id) {
			t.Errorf("ParseKey(%q) = %v, want %v", key, back, id)
		}
	}
	if got := ParseKey("1.x"); !got.IsEmpty() {
		t.Errorf("ParseKey(malformed) = %v, want empty", got)
	}
	if got := ParseKey("1.-2"); !got.IsEmpty() {
		t.Errorf("ParseKey(negative) = %v, want empty", got)
	}
}

func TestIdentifierKeysDistinct(t *testing.T) {
	// 1.12 and 11.2 must not collide.
	if (Identifier{1, 12}).Key() == (Identifier{11, 2}).Key() {
		t.Error("keys collide")
	}
}

func TestIdentifierString(t *testing.T) {
	if got := (Identifier{1, 0}).String(); got != "[1 0]" {
		t.Errorf("String() = %q, want [1 0]", got)
	}
	if got := (Identifier{}).String(); got != "[]" {
		t.Errorf("String() = %q, want []", got)
	}
}

func TestLess(t *testing.T) {
	ordered := []Identifier{{0}, {0, 0}, {0, 1}, {0, 1, 5}, {1}, {2, 0}}
	for i := 0; i < len(ordered)-1; i++ {
		if !Less(ordered[i], ordered[i+1]) {
			t.Errorf("expected %v < %v", ordered[i], ordered[i+1])
		}
		if Less(ordered[i+1], ordered[i]) {
			t.Errorf("expected !(%v < %v)", ordered[i+1], ordered[i])
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet()
	if !s.Add(Identifier{1}) {
		t.Error("first Add should report true")
	}
	if s.Add(Identifier{1}) {
		t.Error("second Add should report false")
	}
	s.Add(Identifier{0, 2})
	if !s.Has(Identifier{0, 2}) {
		t.Error("expected membership")
	}
	got := s.Slice()
	if len(got) != 2 || !got[0].Equal(Identifier{0, 2}) || !got[1].Equal(Identifier{1}) {
		t.Errorf("Slice() = %v", got)
	}
	if !s.Remove(Identifier{1}) || s.Remove(Identifier{1}) {
		t.Error("Remove should report presence once")
	}

	var nilSet Set
	if nilSet.Has(Identifier{0}) || nilSet.Remove(Identifier{0}) {
		t.Error("nil set should be empty")
	}
}

func TestSetStoresCopies(t *testing.T) {
	id := Identifier{3, 4}
	s := NewSet(id)
	id[0] = 0
	if !s.Has(Identifier{3, 4}) {
		t.Error("set entry changed when caller mutated its identifier")
	}
}
