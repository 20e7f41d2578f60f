package tableview

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Normalize lowercases a value and strips everything that is not a
// letter or digit, so filters match regardless of punctuation or case.
// Normalizing an already-normalized string changes nothing.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Row is one table row: named fields, each holding one or more values.
// Multi-valued fields match when any element matches.
type Row struct {
	Fields map[string][]string
}

// Filter returns the rows whose selected field (or any field when field
// is empty) contains the normalized filter text. The result is always a
// subset of rows in their original order.
func Filter(rows []Row, field, text string) []Row {
	needle := Normalize(text)
	if needle == "" {
		return rows
	}

	var out []Row
	for _, row := range rows {
		if rowMatches(row, field, needle) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row Row, field, needle string) bool {
	if field != "" {
		return valuesMatch(row.Fields[field], needle)
	}
	for _, values := range row.Fields {
		if valuesMatch(values, needle) {
			return true
		}
	}
	return false
}

func valuesMatch(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(Normalize(v), needle) {
			return true
		}
	}
	return false
}

// Column kinds drive the comparator.
const (
	KindText = iota
	KindNumber
	KindTime
)

// SortState tracks the active sort column and direction. Selecting the
// same column again toggles direction; selecting a new column resets to
// ascending.
type SortState struct {
	Key        string
	Descending bool
}

// Toggle applies a column selection to the state.
func (s *SortState) Toggle(key string) {
	if s.Key == key {
		s.Descending = !s.Descending
		return
	}
	s.Key = key
	s.Descending = false
}

// Sort orders rows by the state's column. Text columns compare on the
// normalized form, numeric and time columns coerce the first value.
// No secondary key: ties keep their insertion order (the sort is stable).
func Sort(rows []Row, state SortState, kind int) {
	less := func(a, b Row) bool {
		av := firstValue(a, state.Key)
		bv := firstValue(b, state.Key)
		switch kind {
		case KindNumber:
			return coerceNumber(av) < coerceNumber(bv)
		case KindTime:
			return coerceTime(av).Before(coerceTime(bv))
		default:
			return Normalize(av) < Normalize(bv)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if state.Descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func firstValue(r Row, key string) string {
	if vs := r.Fields[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func coerceNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func coerceTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
