// Package forest reconstructs the MPP shard forest from the flat payment
// collection. Shard ids are back-references from untrusted input: a
// reference that does not resolve to a loaded payment is treated as
// absent, and recursion is cycle-checked and depth-capped so a malformed
// dump cannot recurse forever.
package forest

import (
	"ln-sim-viz/internal/domain"
)

// maxDepth caps shard-tree recursion. Well-formed dumps split at most a
// handful of levels; anything deeper is treated as malformed and the
// offending reference resolves as absent.
const maxDepth = 64

// TreeNode is one payment in the shard forest with its subtree
// aggregates. Children are navigation back-references into the flat
// payment collection, never ownership.
type TreeNode struct {
	Payment  *domain.Payment `json:"payment"`
	Children []*TreeNode     `json:"children,omitempty"`

	// Subtree aggregates. A payment with no resolved children is a leaf:
	// LeafCount 1, LeafAmount its own amount, and one success or failure.
	// Internal nodes sum their children; only leaves are terminal outcomes.
	LeafCount     int64 `json:"leaf_count"`
	LeafAmount    int64 `json:"leaf_amount"`
	SuccessLeaves int64 `json:"success_leaves"`
	FailedLeaves  int64 `json:"failed_leaves"`
}

// Forest is a memoized view over one payment collection. It is valid only
// for the lifetime of that collection; rebuild it on reload.
type Forest struct {
	byID  map[int64]*domain.Payment
	cache map[int64]*TreeNode
}

// Build indexes the payment collection. Trees are constructed lazily on
// first access and cached by payment id.
func Build(payments []*domain.Payment) *Forest {
	byID := make(map[int64]*domain.Payment, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}
	return &Forest{
		byID:  byID,
		cache: make(map[int64]*TreeNode),
	}
}

// TreeOf returns the tree rooted at the given payment id, root or shard.
// Returns nil for an unknown id.
func (f *Forest) TreeOf(id int64) *TreeNode {
	return f.build(id, make(map[int64]bool), 0)
}

// Roots returns the trees of all root (non-shard) payments, in collection
// order.
func (f *Forest) Roots(payments []*domain.Payment) []*TreeNode {
	var roots []*TreeNode
	for _, p := range payments {
		if p.IsShard {
			continue
		}
		if t := f.TreeOf(p.ID); t != nil {
			roots = append(roots, t)
		}
	}
	return roots
}

// build resolves a payment id into a cached tree node. visiting holds the
// ids on the current path; a reference that revisits the path or exceeds
// maxDepth resolves as absent.
func (f *Forest) build(id int64, visiting map[int64]bool, depth int) *TreeNode {
	if t, ok := f.cache[id]; ok {
		return t
	}
	if depth > maxDepth || visiting[id] {
		return nil
	}
	p, ok := f.byID[id]
	if !ok {
		return nil
	}

	visiting[id] = true
	var children []*TreeNode
	for _, childID := range p.ChildShardIDs() {
		if child := f.build(childID, visiting, depth+1); child != nil {
			children = append(children, child)
		}
	}
	delete(visiting, id)

	t := &TreeNode{Payment: p, Children: children}
	if len(children) == 0 {
		t.LeafCount = 1
		t.LeafAmount = p.Amount
		if p.IsSuccess {
			t.SuccessLeaves = 1
		} else {
			t.FailedLeaves = 1
		}
	} else {
		for _, c := range children {
			t.LeafCount += c.LeafCount
			t.LeafAmount += c.LeafAmount
			t.SuccessLeaves += c.SuccessLeaves
			t.FailedLeaves += c.FailedLeaves
		}
	}

	f.cache[id] = t
	return t
}
