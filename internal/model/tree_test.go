package model

import (
	"testing"
)

func sp(id uint64, parent *uint64, occ *int) *Space {
	return &Space{
		ID:           id,
		UniversityID: 1,
		Name:         name(id),
		Location:     "campus",
		SpaceType:    SpaceTypeStudying,
		ParentID:     parent,
		CurrentOccupancy: occ,
	}
}

func name(id uint64) string {
	names := map[uint64]string{1: "Library", 2: "3rd Floor", 3: "Quiet Room", 4: "Cafeteria"}
	return names[id]
}

func u64(n uint64) *uint64 { return &n }
func occ(n int) *int       { return &n }

// Library (1) -> 3rd Floor (2) -> Quiet Room (3); Cafeteria (4) is a root.
func fixtureTree(libOcc, floorOcc, roomOcc, cafOcc *int) *Tree {
	return NewTree([]*Space{
		sp(1, nil, libOcc),
		sp(2, u64(1), floorOcc),
		sp(3, u64(2), roomOcc),
		sp(4, nil, cafOcc),
	})
}

func TestTreeOccupancy(t *testing.T) {
	tests := []struct {
		name string
		tree *Tree
		id   uint64
		want *float64
	}{
		{
			name: "own value wins over children",
			tree: fixtureTree(occ(3), occ(5), occ(5), nil),
			id:   1,
			want: f(3),
		},
		{
			name: "mean of reporting children skips unknown",
			tree: NewTree([]*Space{
				sp(1, nil, nil),
				sp(2, u64(1), occ(2)),
				sp(3, u64(1), occ(4)),
				sp(4, u64(1), nil),
			}),
			id:   1,
			want: f(3.0),
		},
		{
			name: "all children unknown is unknown",
			tree: fixtureTree(nil, nil, nil, nil),
			id:   1,
			want: nil,
		},
		{
			name: "leaf with no value is unknown",
			tree: fixtureTree(nil, nil, nil, nil),
			id:   4,
			want: nil,
		},
		{
			name: "single reporting grandchild bubbles up",
			tree: fixtureTree(nil, nil, occ(4), nil),
			id:   1,
			want: f(4.0),
		},
		{
			name: "unknown space id",
			tree: fixtureTree(nil, nil, nil, nil),
			id:   99,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tree.Occupancy(tt.id)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Occupancy() = %v, want %v", deref(got), deref(tt.want))
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Occupancy() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestTreeWouldCycle(t *testing.T) {
	tree := fixtureTree(nil, nil, nil, nil)
	tests := []struct {
		name   string
		id     uint64
		parent uint64
		want   bool
	}{
		{name: "self parent", id: 1, parent: 1, want: true},
		{name: "direct child as parent", id: 1, parent: 2, want: true},
		{name: "transitive descendant as parent", id: 1, parent: 3, want: true},
		{name: "unrelated root as parent", id: 1, parent: 4, want: false},
		{name: "deeper space under root", id: 4, parent: 3, want: false},
		{name: "reparent leaf to root", id: 3, parent: 1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.WouldCycle(tt.id, tt.parent); got != tt.want {
				t.Errorf("WouldCycle(%d, %d) = %v, want %v", tt.id, tt.parent, got, tt.want)
			}
		})
	}

	// Every member of descendants(S) and S itself must be rejected as a parent.
	for _, d := range tree.Descendants(1) {
		if !tree.WouldCycle(1, d.ID) {
			t.Errorf("WouldCycle(1, %d) = false for descendant, want true", d.ID)
		}
	}
}

func TestTreeFullName(t *testing.T) {
	tree := fixtureTree(nil, nil, nil, nil)
	tests := []struct {
		id   uint64
		want string
	}{
		{id: 1, want: "Library"},
		{id: 2, want: "Library > 3rd Floor"},
		{id: 3, want: "Library > 3rd Floor > Quiet Room"},
		{id: 4, want: "Cafeteria"},
	}
	for _, tt := range tests {
		if got := tree.FullName(tt.id); got != tt.want {
			t.Errorf("FullName(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestTreeDescendantsAndComposite(t *testing.T) {
	tree := fixtureTree(nil, nil, nil, nil)

	got := tree.Descendants(1)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("Descendants(1) = %v, want ids [2 3] in pre-order", ids(got))
	}
	if len(tree.Descendants(4)) != 0 {
		t.Errorf("Descendants(4) should be empty")
	}
	if !tree.IsComposite(1) || !tree.IsComposite(2) {
		t.Errorf("spaces with children must be composite")
	}
	if tree.IsComposite(3) || tree.IsComposite(4) {
		t.Errorf("leaves must not be composite")
	}
	if n := len(tree.Roots()); n != 2 {
		t.Errorf("Roots() = %d spaces, want 2", n)
	}
}

func f(v float64) *float64 { return &v }

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func ids(spaces []*Space) []uint64 {
	out := make([]uint64, len(spaces))
	for i, s := range spaces {
		out[i] = s.ID
	}
	return out
}
