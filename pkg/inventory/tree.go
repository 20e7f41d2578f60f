package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// BoxFetcher hydrates a single box. The verbose form returns the box with
// its immediate parts and child-box summaries.
type BoxFetcher interface {
	FetchBox(ctx context.Context, id string, verbose bool) (*Box, error)
}

// Node is one box in the materialized tree. Child boxes and parts are
// only populated once the node has been expanded.
type Node struct {
	Box      Box
	ChildIDs []string
	Parts    []Part
	Expanded bool
}

// Tree lazily materializes a project's box hierarchy. Nodes live in a
// flat arena keyed by box id with parent/child references, so updates
// touch one entry instead of rewriting nested slices.
type Tree struct {
	mu      sync.Mutex
	fetcher BoxFetcher
	nodes   map[string]*Node
	rootIDs []string
	fetched map[string]bool
	loading map[string]bool
}

// NewTree seeds a tree from a project's top-level box summaries.
func NewTree(fetcher BoxFetcher, roots []Box) *Tree {
	t := &Tree{
		fetcher: fetcher,
		nodes:   make(map[string]*Node),
		fetched: make(map[string]bool),
		loading: make(map[string]bool),
	}
	for _, b := range roots {
		t.nodes[b.ID] = &Node{Box: b}
		t.rootIDs = append(t.rootIDs, b.ID)
	}
	return t
}

// RootIDs returns the top-level box ids in insertion order.
func (t *Tree) RootIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.rootIDs...)
}

// Node returns a copy of the node for id, or nil if unknown.
func (t *Tree) Node(id string) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	cp := *n
	cp.ChildIDs = append([]string(nil), n.ChildIDs...)
	cp.Parts = append([]Part(nil), n.Parts...)
	return &cp
}

// Expand marks the node open and hydrates it at most once. Repeated
// expands of an already-fetched node, and expands racing an in-flight
// fetch for the same node, are no-ops.
func (t *Tree) Expand(ctx context.Context, id string) error {
	t.mu.Lock()
	n, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("unknown box: %s", id)
	}
	n.Expanded = true
	if t.fetched[id] || t.loading[id] {
		t.mu.Unlock()
		return nil
	}
	t.loading[id] = true
	t.mu.Unlock()

	box, err := t.fetcher.FetchBox(ctx, id, true)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.loading, id)
	if err != nil {
		return err
	}

	n.Box.PartCount = box.PartCount
	n.Box.SubBoxCount = box.SubBoxCount
	n.Parts = append([]Part(nil), box.Parts...)
	n.ChildIDs = n.ChildIDs[:0]
	for _, child := range box.Boxes {
		child := child
		child.Boxes = nil
		child.Parts = nil
		if existing, ok := t.nodes[child.ID]; ok {
			existing.Box = child
		} else {
			t.nodes[child.ID] = &Node{Box: child}
		}
		n.ChildIDs = append(n.ChildIDs, child.ID)
	}
	t.fetched[id] = true
	return nil
}

// Collapse is a pure view-state toggle; fetched data is retained so
// re-expanding is free.
func (t *Tree) Collapse(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.nodes[id]; ok {
		n.Expanded = false
	}
}

// Fetched reports whether a node's detail has been hydrated.
func (t *Tree) Fetched(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetched[id]
}

// Rename updates a single node's name in place.
func (t *Tree) Rename(id, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("unknown box: %s", id)
	}
	n.Box.Name = name
	return nil
}

// UpdatePart replaces a part inside its box node.
func (t *Tree) UpdatePart(p Part) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[p.BoxID]
	if !ok {
		return fmt.Errorf("unknown box: %s", p.BoxID)
	}
	for i := range n.Parts {
		if n.Parts[i].ID == p.ID {
			n.Parts[i] = p
			return nil
		}
	}
	return fmt.Errorf("part %s not found in box %s", p.ID, p.BoxID)
}

// Delete removes a box and its entire subtree from the arena in a single
// update, leaving no orphans referencing the deleted parent.
func (t *Tree) Delete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var drop func(string)
	drop = func(boxID string) {
		n, ok := t.nodes[boxID]
		if !ok {
			return
		}
		for _, childID := range n.ChildIDs {
			drop(childID)
		}
		delete(t.nodes, boxID)
		delete(t.fetched, boxID)
		delete(t.loading, boxID)
	}

	parentID := ""
	if n, ok := t.nodes[id]; ok {
		parentID = n.Box.ParentBoxID
	}
	drop(id)

	if parentID == "" {
		t.rootIDs = removeID(t.rootIDs, id)
		return
	}
	if parent, ok := t.nodes[parentID]; ok {
		parent.ChildIDs = removeID(parent.ChildIDs, id)
		if parent.Box.SubBoxCount > 0 {
			parent.Box.SubBoxCount--
		}
	}
}

// Len returns the number of known nodes.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// IDs returns all known box ids, sorted. Mostly useful in tests.
func (t *Tree) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rollup status values for a location.
const (
	RollupReviewed    = "reviewed"
	RollupNeedsReview = "needs_review"
	RollupUnreviewed  = "unreviewed"
)

// Rollup computes a location's aggregate review status from live nodes:
// reviewed iff every fetched part in the subtree is reviewed, otherwise
// needs_review when any part requests more photos, otherwise unreviewed.
// The value is never cached; callers recompute it after each mutation.
func (t *Tree) Rollup(id string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	total, reviewed, morePhotos := 0, 0, 0
	var walk func(string)
	walk = func(boxID string) {
		n, ok := t.nodes[boxID]
		if !ok {
			return
		}
		for _, p := range n.Parts {
			total++
			switch p.ReviewStatus {
			case ReviewDone:
				reviewed++
			case ReviewMorePhotos:
				morePhotos++
			}
		}
		for _, childID := range n.ChildIDs {
			walk(childID)
		}
	}
	walk(id)

	switch {
	case total > 0 && reviewed == total:
		return RollupReviewed
	case morePhotos > 0:
		return RollupNeedsReview
	default:
		return RollupUnreviewed
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
