package model

import "sort"

// FileRecord is one source file's aggregated record: its functions, and the
// union of their covered/uncovered line sets.
type FileRecord struct {
	Path       string
	ObjectFile string

	Functions map[string]*FunctionRecord
	funcOrder []string

	Covered       []int
	Uncovered     []int
	CompiledLines int
	Coverage      float64 // 0..100

	sourceText     string
	sourceResolved bool
}

// NewFileRecord creates an empty record for path.
func NewFileRecord(path string) *FileRecord {
	return &FileRecord{
		Path:      path,
		Functions: make(map[string]*FunctionRecord),
	}
}

// FunctionOrder returns function names in first-appearance order.
func (f *FileRecord) FunctionOrder() []string {
	return f.funcOrder
}

// EnsureFunction returns the named function's record, creating it (and
// recording first-appearance order) if this is the first time the file has
// seen it.
func (f *FileRecord) EnsureFunction(name string, vocabLen int) *FunctionRecord {
	fn, ok := f.Functions[name]
	if !ok {
		fn = NewFunctionRecord(f.Path, name, vocabLen)
		f.Functions[name] = fn
		f.funcOrder = append(f.funcOrder, name)
	}
	return fn
}

// SetSourceText caches resolved source content for this file, so repeated
// queries for the same file don't re-run the source resolver.
func (f *FileRecord) SetSourceText(text string, found bool) {
	f.sourceText = text
	f.sourceResolved = found
}

// SourceText returns the cached resolved source content, if any was set.
func (f *FileRecord) SourceText() (string, bool) {
	return f.sourceText, f.sourceResolved
}

// FinalizeCoverage computes the file-level union of covered/uncovered lines
// across all contained functions per spec §4.3, and derives CompiledLines
// and Coverage.
func (f *FileRecord) FinalizeCoverage() {
	coveredSet := make(map[int]struct{})
	uncoveredSet := make(map[int]struct{})
	for _, name := range f.funcOrder {
		fn := f.Functions[name]
		for _, l := range fn.Covered {
			coveredSet[l] = struct{}{}
		}
		for _, l := range fn.Uncovered {
			uncoveredSet[l] = struct{}{}
		}
	}
	// A line executed in any function wins over an uncovered sighting of the
	// same line number in another function of the same file.
	for l := range coveredSet {
		delete(uncoveredSet, l)
	}

	f.Covered = setToSortedSlice(coveredSet)
	f.Uncovered = setToSortedSlice(uncoveredSet)
	f.CompiledLines = len(coveredSet) + len(uncoveredSet)
	if f.CompiledLines == 0 {
		f.Coverage = 0
		return
	}
	f.Coverage = float64(len(coveredSet)) / float64(f.CompiledLines) * 100
}

func setToSortedSlice(s map[int]struct{}) []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
