package tableview

import (
	"reflect"
	"testing"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Helper()

	inputs := []string{"LM-358 (SOIC)", "  STM32F103C8T6  ", "already normal", "ÄÖÜ-mixed_case.9"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeStripsPunctuationAndCase(t *testing.T) {
	t.Helper()

	if got := Normalize("LM-358/N rev.B"); got != "lm358nrevb" {
		t.Fatalf("unexpected normalized form: %q", got)
	}
}

func testRows() []Row {
	return []Row{
		{Fields: map[string][]string{"mpn": {"LM358"}, "manufacturer": {"Texas Instruments"}, "quantity": {"40"}}},
		{Fields: map[string][]string{"mpn": {"STM32F103"}, "manufacturer": {"STMicroelectronics"}, "quantity": {"7"}}},
		{Fields: map[string][]string{"mpn": {"NE555"}, "manufacturer": {"Texas Instruments"}, "quantity": {"112"}}},
	}
}

func TestFilterResultIsSubset(t *testing.T) {
	t.Helper()

	rows := testRows()
	got := Filter(rows, "", "texas")

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, row := range got {
		found := false
		for _, orig := range rows {
			if reflect.DeepEqual(orig, row) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("filtered row %#v not in original set", row)
		}
	}
}

func TestFilterSingleFieldIgnoresOthers(t *testing.T) {
	t.Helper()

	got := Filter(testRows(), "mpn", "texas")
	if len(got) != 0 {
		t.Fatalf("manufacturer text should not match the mpn field, got %d rows", len(got))
	}
}

func TestFilterMatchesAnyArrayElement(t *testing.T) {
	t.Helper()

	rows := []Row{
		{Fields: map[string][]string{"subs": {"alpha", "beta"}}},
		{Fields: map[string][]string{"subs": {"gamma"}}},
	}
	got := Filter(rows, "subs", "beta")
	if len(got) != 1 {
		t.Fatalf("expected the multi-valued row to match, got %d rows", len(got))
	}
}

func TestSortToggleReversesOrder(t *testing.T) {
	t.Helper()

	state := SortState{}
	state.Toggle("mpn")

	asc := testRows()
	Sort(asc, state, KindText)

	state.Toggle("mpn")
	desc := testRows()
	Sort(desc, state, KindText)

	for i := range asc {
		if !reflect.DeepEqual(asc[i], desc[len(desc)-1-i]) {
			t.Fatalf("descending sort is not the reverse of ascending at index %d", i)
		}
	}
}

func TestSortToggleNewKeyResetsAscending(t *testing.T) {
	t.Helper()

	state := SortState{Key: "mpn", Descending: true}
	state.Toggle("quantity")
	if state.Key != "quantity" || state.Descending {
		t.Fatalf("new key should reset to ascending, got %#v", state)
	}
}

func TestSortNumericCoercion(t *testing.T) {
	t.Helper()

	rows := testRows()
	Sort(rows, SortState{Key: "quantity"}, KindNumber)

	want := []string{"7", "40", "112"}
	var got []string
	for _, r := range rows {
		got = append(got, r.Fields["quantity"][0])
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("numeric sort order wrong.\nwant: %#v\ngot:  %#v", want, got)
	}
}
