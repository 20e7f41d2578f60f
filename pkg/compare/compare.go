package compare

import (
	"sort"

	"github.com/partstash/partstash/pkg/inventory"
)

// Matcher reconciles a project's actual parts against the packing
// slip's expected line items. A part belongs to at most one expected
// item at a time; re-matching it elsewhere removes it from its previous
// match.
type Matcher struct {
	expected map[int]inventory.Expected
	matches  map[int]map[string]struct{} // expected id -> part id set
	order    []int
	nextTemp int
}

// NewMatcher seeds a matcher with the server-issued expected items.
func NewMatcher(expected []inventory.Expected) *Matcher {
	m := &Matcher{
		expected: make(map[int]inventory.Expected),
		matches:  make(map[int]map[string]struct{}),
		nextTemp: -1,
	}
	for _, e := range expected {
		m.expected[e.ID] = e
		m.matches[e.ID] = make(map[string]struct{})
		m.order = append(m.order, e.ID)
	}
	return m
}

// AddExpected appends a new expected line item with a temporary
// client-local id. Real ids are always server-issued; temporary ones are
// negative so they can never collide.
func (m *Matcher) AddExpected(item inventory.Expected) int {
	item.ID = m.nextTemp
	m.nextTemp--
	m.expected[item.ID] = item
	m.matches[item.ID] = make(map[string]struct{})
	m.order = append(m.order, item.ID)
	return item.ID
}

// Match assigns parts to an expected item, detaching each part from any
// other expected item it was matched to before.
func (m *Matcher) Match(expectedID int, partIDs []string) bool {
	target, ok := m.matches[expectedID]
	if !ok {
		return false
	}
	for _, partID := range partIDs {
		for id, set := range m.matches {
			if id != expectedID {
				delete(set, partID)
			}
		}
		target[partID] = struct{}{}
	}
	return true
}

// Unmatch detaches parts from an expected item.
func (m *Matcher) Unmatch(expectedID int, partIDs []string) {
	set, ok := m.matches[expectedID]
	if !ok {
		return
	}
	for _, partID := range partIDs {
		delete(set, partID)
	}
}

// Matched returns the sorted part ids currently matched to an expected
// item.
func (m *Matcher) Matched(expectedID int) []string {
	set, ok := m.matches[expectedID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ExpectedIDs returns all expected item ids in insertion order.
func (m *Matcher) ExpectedIDs() []int {
	return append([]int(nil), m.order...)
}

// Expected returns the line item for an id.
func (m *Matcher) Expected(id int) (inventory.Expected, bool) {
	e, ok := m.expected[id]
	return e, ok
}

// LineStatus summarizes one expected item against its matches.
type LineStatus struct {
	Item            inventory.Expected
	MatchedParts    []string
	MatchedQuantity int
	Short           int // expected minus matched, never negative
}

// Summary computes per-line reconciliation against the given parts.
func (m *Matcher) Summary(parts []inventory.Part) []LineStatus {
	qtyByID := make(map[string]int, len(parts))
	for _, p := range parts {
		qtyByID[p.ID] = p.Quantity
	}

	out := make([]LineStatus, 0, len(m.order))
	for _, id := range m.order {
		item := m.expected[id]
		matched := m.Matched(id)
		qty := 0
		for _, partID := range matched {
			qty += qtyByID[partID]
		}
		short := item.Quantity - qty
		if short < 0 {
			short = 0
		}
		out = append(out, LineStatus{
			Item:            item,
			MatchedParts:    matched,
			MatchedQuantity: qty,
			Short:           short,
		})
	}
	return out
}
