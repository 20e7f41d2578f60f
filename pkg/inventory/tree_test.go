package inventory

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

// fakeFetcher serves canned boxes and counts fetches per id.
type fakeFetcher struct {
	mu      sync.Mutex
	boxes   map[string]*Box
	fetches map[string]int
}

func newFakeFetcher(boxes ...*Box) *fakeFetcher {
	f := &fakeFetcher{
		boxes:   make(map[string]*Box),
		fetches: make(map[string]int),
	}
	for _, b := range boxes {
		f.boxes[b.ID] = b
	}
	return f
}

func (f *fakeFetcher) FetchBox(_ context.Context, id string, _ bool) (*Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[id]++
	return f.boxes[id], nil
}

func (f *fakeFetcher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[id]
}

func TestExpandFetchesAtMostOnce(t *testing.T) {
	fetcher := newFakeFetcher(&Box{
		ID:        "b1",
		Name:      "crate",
		PartCount: 1,
		Parts:     []Part{{ID: "p1", BoxID: "b1", MPN: "LM358"}},
	})
	tree := NewTree(fetcher, []Box{{ID: "b1", Name: "crate"}})

	for i := 0; i < 3; i++ {
		if err := tree.Expand(context.Background(), "b1"); err != nil {
			t.Fatalf("expand %d: %v", i, err)
		}
	}

	if got := fetcher.count("b1"); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
	node := tree.Node("b1")
	if node == nil || !node.Expanded || len(node.Parts) != 1 {
		t.Fatalf("node not hydrated: %#v", node)
	}
}

func TestCollapseKeepsFetchedData(t *testing.T) {
	fetcher := newFakeFetcher(&Box{
		ID:    "b1",
		Parts: []Part{{ID: "p1", BoxID: "b1"}},
	})
	tree := NewTree(fetcher, []Box{{ID: "b1"}})

	if err := tree.Expand(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}
	tree.Collapse("b1")
	if err := tree.Expand(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}

	if got := fetcher.count("b1"); got != 1 {
		t.Fatalf("re-expand after collapse should not refetch, got %d fetches", got)
	}
	if node := tree.Node("b1"); len(node.Parts) != 1 {
		t.Fatalf("collapse dropped fetched parts: %#v", node)
	}
}

func TestExpandRegistersChildren(t *testing.T) {
	fetcher := newFakeFetcher(&Box{
		ID:          "root",
		SubBoxCount: 2,
		Boxes: []Box{
			{ID: "c1", Name: "drawer 1", ParentBoxID: "root"},
			{ID: "c2", Name: "drawer 2", ParentBoxID: "root"},
		},
	})
	tree := NewTree(fetcher, []Box{{ID: "root"}})

	if err := tree.Expand(context.Background(), "root"); err != nil {
		t.Fatal(err)
	}

	want := []string{"c1", "c2", "root"}
	if got := tree.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected arena ids.\nwant: %#v\ngot:  %#v", want, got)
	}
	if node := tree.Node("root"); !reflect.DeepEqual(node.ChildIDs, []string{"c1", "c2"}) {
		t.Fatalf("child ids wrong: %#v", node.ChildIDs)
	}
}

func TestDeleteRemovesSubtreeWithoutOrphans(t *testing.T) {
	fetcher := newFakeFetcher(
		&Box{
			ID:          "root",
			SubBoxCount: 1,
			Boxes:       []Box{{ID: "mid", ParentBoxID: "root", SubBoxCount: 1}},
		},
		&Box{
			ID:          "mid",
			ParentBoxID: "root",
			SubBoxCount: 1,
			Boxes:       []Box{{ID: "leaf", ParentBoxID: "mid"}},
		},
	)
	tree := NewTree(fetcher, []Box{{ID: "root", SubBoxCount: 1}})

	if err := tree.Expand(context.Background(), "root"); err != nil {
		t.Fatal(err)
	}
	if err := tree.Expand(context.Background(), "mid"); err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 3 {
		t.Fatalf("expected 3 nodes before delete, got %d", tree.Len())
	}

	tree.Delete("mid")

	if got := tree.IDs(); !reflect.DeepEqual(got, []string{"root"}) {
		t.Fatalf("expected only root to survive, got %#v", got)
	}
	root := tree.Node("root")
	if len(root.ChildIDs) != 0 {
		t.Fatalf("parent still references deleted child: %#v", root.ChildIDs)
	}
	if root.Box.SubBoxCount != 0 {
		t.Fatalf("sub-box count not decremented: %d", root.Box.SubBoxCount)
	}
}

func TestDeleteRootBox(t *testing.T) {
	tree := NewTree(newFakeFetcher(), []Box{{ID: "a"}, {ID: "b"}})
	tree.Delete("a")
	if got := tree.RootIDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("root list wrong after delete: %#v", got)
	}
}

func TestRollupScenarios(t *testing.T) {
	tests := []struct {
		name     string
		statuses [][]string // outer: box depth, inner: parts in that box
		expected string
	}{
		{
			name:     "all reviewed",
			statuses: [][]string{{ReviewDone}, {ReviewDone, ReviewDone}},
			expected: RollupReviewed,
		},
		{
			name:     "photos requested anywhere wins over unreviewed",
			statuses: [][]string{{ReviewDone}, {ReviewNever, ReviewMorePhotos}},
			expected: RollupNeedsReview,
		},
		{
			name:     "mixed without photo requests",
			statuses: [][]string{{ReviewDone}, {ReviewNever}},
			expected: RollupUnreviewed,
		},
		{
			name:     "empty subtree",
			statuses: [][]string{{}, {}},
			expected: RollupUnreviewed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			child := &Box{ID: "child", ParentBoxID: "root"}
			for i, st := range tc.statuses[1] {
				child.Parts = append(child.Parts, Part{ID: "cp" + string(rune('0'+i)), BoxID: "child", ReviewStatus: st})
			}
			root := &Box{ID: "root", SubBoxCount: 1, Boxes: []Box{{ID: "child", ParentBoxID: "root"}}}
			for i, st := range tc.statuses[0] {
				root.Parts = append(root.Parts, Part{ID: "rp" + string(rune('0'+i)), BoxID: "root", ReviewStatus: st})
			}

			fetcher := newFakeFetcher(root, child)
			tree := NewTree(fetcher, []Box{{ID: "root"}})
			if err := tree.Expand(context.Background(), "root"); err != nil {
				t.Fatal(err)
			}
			if err := tree.Expand(context.Background(), "child"); err != nil {
				t.Fatal(err)
			}

			if got := tree.Rollup("root"); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestRollupRecomputesAfterPartUpdate(t *testing.T) {
	fetcher := newFakeFetcher(&Box{
		ID:    "b1",
		Parts: []Part{{ID: "p1", BoxID: "b1", ReviewStatus: ReviewNever}},
	})
	tree := NewTree(fetcher, []Box{{ID: "b1"}})
	if err := tree.Expand(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}

	if got := tree.Rollup("b1"); got != RollupUnreviewed {
		t.Fatalf("expected unreviewed before update, got %s", got)
	}
	if err := tree.UpdatePart(Part{ID: "p1", BoxID: "b1", ReviewStatus: ReviewDone}); err != nil {
		t.Fatal(err)
	}
	if got := tree.Rollup("b1"); got != RollupReviewed {
		t.Fatalf("expected reviewed after update, got %s", got)
	}
}
