package model

import "sort"

// LineRecord aggregates event counts for a single (file, function, line)
// triple. Multiple data rows naming the same line (distinct PCs) are summed
// into one record; Executed becomes the logical OR of the component rows.
type LineRecord struct {
	File     string
	Function string
	Line     int
	Counts   Counts
	Executed bool
}

// Merge folds another row's counts into the record, matching the aggregation
// rule in spec §3: counts sum, Executed is OR'd.
func (r *LineRecord) Merge(counts Counts) {
	r.Counts.Add(counts)
	if counts.AnyNonZero() {
		r.Executed = true
	}
}

// PcRecord aggregates event counts for a single (function, PC) triple in
// callgrind instruction-level mode. A PC belongs to at most one function.
type PcRecord struct {
	Function string
	PC       string // lowercase hex, "0x" prefixed
	Line     int
	Counts   Counts
	Executed bool
}

// Merge folds a duplicate row for the same PC (callgrind permits repeats).
func (r *PcRecord) Merge(counts Counts) {
	r.Counts.Add(counts)
	if counts.AnyNonZero() {
		r.Executed = true
	}
}

// CallEdge is a call site: a source function calling a target function,
// optionally carrying the inclusive cost incurred inside the callee.
type CallEdge struct {
	SourceFunction string
	SourceFile     string
	SourcePC       string // "" when positions don't include PCs
	TargetFile     string // optional; empty means "resolve in source file"
	TargetFunction string
	Count          uint64
	Inclusive      Counts // nil when the profile carries no calls= cost row
}

// FunctionRecord is one function's complete record within a FileRecord:
// its line/PC data, exclusive totals, coverage partition, and outgoing call
// edges.
type FunctionRecord struct {
	Name       string
	File       string
	ObjectFile string

	Lines   map[int]*LineRecord
	PCs     map[string]*PcRecord
	lineOrd []int // first-appearance order, for stable iteration

	Exclusive Counts

	Covered   []int // sorted ascending
	Uncovered []int // sorted ascending

	Calls []*CallEdge
}

// NewFunctionRecord creates an empty record sized to the vocabulary.
func NewFunctionRecord(file, name string, vocabLen int) *FunctionRecord {
	return &FunctionRecord{
		Name:      name,
		File:      file,
		Lines:     make(map[int]*LineRecord),
		PCs:       make(map[string]*PcRecord),
		Exclusive: NewCounts(vocabLen),
	}
}

// LineOrder returns line numbers in first-appearance order.
func (f *FunctionRecord) LineOrder() []int {
	return f.lineOrd
}

// RecordLine accumulates a data row's counts into the function's line
// record for line, creating it on first sight, and folds the row into the
// function's exclusive totals.
func (f *FunctionRecord) RecordLine(line int, counts Counts) *LineRecord {
	rec, ok := f.Lines[line]
	if !ok {
		rec = &LineRecord{File: f.File, Function: f.Name, Line: line, Counts: NewCounts(len(counts))}
		f.Lines[line] = rec
		f.lineOrd = append(f.lineOrd, line)
	}
	rec.Merge(counts)
	f.Exclusive.Add(counts)
	return rec
}

// RecordPC accumulates a data row's counts into the function's PC record
// for pc, creating it on first sight. Does not touch exclusive totals —
// callers must also call RecordLine for the same row in instruction-level
// mode, since a PC row always carries a line too.
func (f *FunctionRecord) RecordPC(pc string, line int, counts Counts) *PcRecord {
	rec, ok := f.PCs[pc]
	if !ok {
		rec = &PcRecord{Function: f.Name, PC: pc, Line: line, Counts: NewCounts(len(counts))}
		f.PCs[pc] = rec
	}
	rec.Merge(counts)
	return rec
}

// FinalizeCoverage partitions the function's lines into Covered/Uncovered,
// sorted ascending. Called once after the parser has finished emitting rows
// for this function.
func (f *FunctionRecord) FinalizeCoverage() {
	f.Covered = f.Covered[:0]
	f.Uncovered = f.Uncovered[:0]
	for _, line := range f.lineOrd {
		rec := f.Lines[line]
		if rec.Executed {
			f.Covered = append(f.Covered, line)
		} else {
			f.Uncovered = append(f.Uncovered, line)
		}
	}
	sort.Ints(f.Covered)
	sort.Ints(f.Uncovered)
}

// PCRange returns the first and last PC of the function's PcRecord set,
// ordered as unsigned hexadecimal. Both are empty strings when the function
// has no PC-level data.
func (f *FunctionRecord) PCRange() (start, end string) {
	if len(f.PCs) == 0 {
		return "", ""
	}
	first := true
	for pc := range f.PCs {
		if first {
			start, end = pc, pc
			first = false
			continue
		}
		if lessHexPC(pc, start) {
			start = pc
		}
		if lessHexPC(end, pc) {
			end = pc
		}
	}
	return start, end
}
