package model

// AnalysisKind distinguishes the two textual formats this package models.
// Callgrind extends cachegrind with instruction-level PC positions and a
// call graph; cachegrind carries only per-line counters.
type AnalysisKind int

const (
	KindCachegrind AnalysisKind = iota
	KindCallgrind
)

func (k AnalysisKind) String() string {
	if k == KindCallgrind {
		return "callgrind"
	}
	return "cachegrind"
}

// Profile is the frozen, fully-aggregated result of ingesting one profile.
// It is built once by the parser and aggregator and is never mutated after
// construction — concurrent readers need no synchronization.
type Profile struct {
	Vocabulary *EventVocabulary
	Kind       AnalysisKind
	Command    string
	Pid        string

	Files     map[string]*FileRecord
	fileOrder []string

	Summary Counts

	FilesAnalyzed      int
	TotalCompiledLines int
	TotalCoveredLines  int
	OverallCoverage    float64
}

// NewProfile creates an empty profile for the given vocabulary and kind.
func NewProfile(vocab *EventVocabulary, kind AnalysisKind) *Profile {
	return &Profile{
		Vocabulary: vocab,
		Kind:       kind,
		Files:      make(map[string]*FileRecord),
	}
}

// FileOrder returns file paths in first-appearance order, which spec §5
// requires iteration to reflect.
func (p *Profile) FileOrder() []string {
	return p.fileOrder
}

// EnsureFile returns the FileRecord for path, creating it (and recording
// first-appearance order) on first sight.
func (p *Profile) EnsureFile(path string) *FileRecord {
	fr, ok := p.Files[path]
	if !ok {
		fr = NewFileRecord(path)
		p.Files[path] = fr
		p.fileOrder = append(p.fileOrder, path)
	}
	return fr
}

// Function looks up a function by (file, name).
func (p *Profile) Function(file, name string) (*FunctionRecord, bool) {
	fr, ok := p.Files[file]
	if !ok {
		return nil, false
	}
	fn, ok := fr.Functions[name]
	return fn, ok
}
