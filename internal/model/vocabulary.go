// Package model holds the frozen data model produced by a profile ingest:
// the event vocabulary, per-line and per-PC records, call edges, and the
// file/function/profile containers that aggregate them.
package model

import "strings"

// EventVocabulary is the ordered set of event identifiers declared by a
// profile's "events:" header (e.g. Ir, Cy, Dr, Dw). Its order is the column
// order of every data row that follows in the input, and it is frozen once
// built — nothing after header parsing may append to it.
type EventVocabulary struct {
	names []string
	index map[string]int
}

// NewEventVocabulary builds a vocabulary from the header's event names, in
// declaration order.
func NewEventVocabulary(names []string) *EventVocabulary {
	idx := make(map[string]int, len(names))
	cp := make([]string, len(names))
	for i, n := range names {
		cp[i] = n
		idx[n] = i
	}
	return &EventVocabulary{names: cp, index: idx}
}

// Len returns the number of declared events.
func (v *EventVocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// Names returns the vocabulary in declaration order. The slice must not be
// mutated by callers.
func (v *EventVocabulary) Names() []string {
	if v == nil {
		return nil
	}
	return v.names
}

// IndexOf returns the column index of an event name and whether it is
// declared in this vocabulary.
func (v *EventVocabulary) IndexOf(name string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[name]
	return i, ok
}

// Primary returns the index of the event that the call graph uses for
// exclusive/inclusive roll-ups: Cy when present, else Ir, else the first
// declared event.
func (v *EventVocabulary) Primary() int {
	if v == nil || len(v.names) == 0 {
		return 0
	}
	if i, ok := v.index["Cy"]; ok {
		return i
	}
	if i, ok := v.index["Ir"]; ok {
		return i
	}
	return 0
}

// String renders the vocabulary the way it appeared in the profile header.
func (v *EventVocabulary) String() string {
	if v == nil {
		return ""
	}
	return strings.Join(v.names, " ")
}

// Counts is a vocabulary-indexed fixed-width vector of event counters. Index
// i corresponds to EventVocabulary.Names()[i]; missing trailing columns in
// the input are left at their zero value.
type Counts []int64

// NewCounts allocates a zeroed vector sized to the vocabulary.
func NewCounts(n int) Counts {
	return make(Counts, n)
}

// Add accumulates other into c in place, extending c with zeros if other is
// longer (callgrind may abbreviate trailing zero columns row to row).
func (c *Counts) Add(other Counts) {
	if len(other) > len(*c) {
		grown := make(Counts, len(other))
		copy(grown, *c)
		*c = grown
	}
	for i, v := range other {
		(*c)[i] += v
	}
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	cp := make(Counts, len(c))
	copy(cp, c)
	return cp
}

// AnyNonZero reports whether any counter is greater than zero, the
// definition of a line/PC record's "executed" flag.
func (c Counts) AnyNonZero() bool {
	for _, v := range c {
		if v > 0 {
			return true
		}
	}
	return false
}
