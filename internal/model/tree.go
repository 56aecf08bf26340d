package model

// Tree is an in-memory arena over the spaces of a single university. Spaces
// are indexed by id; the child relation is derived from each space's
// ParentID rather than stored, so the parent pointer is the single source of
// truth. All hierarchy reads (occupancy aggregation, full names, descendant
// walks) and the set-parent cycle check run against a Tree loaded in one
// query.
//
// The read operations assume the parent relation is acyclic; the write path
// must call WouldCycle before persisting a new parent to keep it that way.
type Tree struct {
	spaces   map[uint64]*Space
	children map[uint64][]uint64
	order    []uint64 // ids in input order, for stable child ordering
}

// NewTree builds a Tree from the given spaces. Child lists preserve the
// order of the input slice, so callers that load rows ordered by
// (space_type, name) get deterministic traversals.
func NewTree(spaces []*Space) *Tree {
	t := &Tree{
		spaces:   make(map[uint64]*Space, len(spaces)),
		children: make(map[uint64][]uint64),
		order:    make([]uint64, 0, len(spaces)),
	}
	for _, s := range spaces {
		t.spaces[s.ID] = s
		t.order = append(t.order, s.ID)
	}
	for _, id := range t.order {
		s := t.spaces[id]
		if s.ParentID != nil {
			t.children[*s.ParentID] = append(t.children[*s.ParentID], id)
		}
	}
	return t
}

// Space returns the space with the given id, or nil when absent.
func (t *Tree) Space(id uint64) *Space { return t.spaces[id] }

// Roots returns the spaces with no parent, in input order.
func (t *Tree) Roots() []*Space {
	var out []*Space
	for _, id := range t.order {
		if t.spaces[id].ParentID == nil {
			out = append(out, t.spaces[id])
		}
	}
	return out
}

// Children returns the direct children of a space in input order.
func (t *Tree) Children(id uint64) []*Space {
	ids := t.children[id]
	out := make([]*Space, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.spaces[cid])
	}
	return out
}

// IsComposite reports whether the space has at least one child.
func (t *Tree) IsComposite(id uint64) bool { return len(t.children[id]) > 0 }

// Occupancy computes the effective occupancy of a space. A directly reported
// value always wins, even when children exist. Otherwise the result is the
// arithmetic mean of the children's known occupancies, skipping children
// whose own occupancy is unknown. nil means unknown: the space has no
// reported value and no child reports one either.
func (t *Tree) Occupancy(id uint64) *float64 {
	s := t.spaces[id]
	if s == nil {
		return nil
	}
	if s.CurrentOccupancy != nil {
		v := float64(*s.CurrentOccupancy)
		return &v
	}
	var sum float64
	var n int
	for _, cid := range t.children[id] {
		if v := t.Occupancy(cid); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// FullName returns the space's name prefixed by its ancestors, joined with
// " > ", e.g. "Library > 3rd Floor".
func (t *Tree) FullName(id uint64) string {
	s := t.spaces[id]
	if s == nil {
		return ""
	}
	if s.ParentID == nil || t.spaces[*s.ParentID] == nil {
		return s.Name
	}
	return t.FullName(*s.ParentID) + " > " + s.Name
}

// Descendants collects all transitive children of a space in pre-order.
func (t *Tree) Descendants(id uint64) []*Space {
	var out []*Space
	for _, cid := range t.children[id] {
		out = append(out, t.spaces[cid])
		out = append(out, t.Descendants(cid)...)
	}
	return out
}

// WouldCycle reports whether setting parentID as the parent of id would
// create a cycle. It is true when parentID is id itself or any descendant of
// id; equivalently, it walks the parent chain upward from parentID looking
// for id. The walk is bounded by a visited set so it terminates even if the
// stored relation has been corrupted out-of-band.
func (t *Tree) WouldCycle(id, parentID uint64) bool {
	if id == parentID {
		return true
	}
	seen := make(map[uint64]bool)
	cur := t.spaces[parentID]
	for cur != nil && cur.ParentID != nil {
		pid := *cur.ParentID
		if pid == id {
			return true
		}
		if seen[pid] {
			return false
		}
		seen[pid] = true
		cur = t.spaces[pid]
	}
	return false
}
