// Package parser implements the streaming Cachegrind/Callgrind text-format
// parser (spec §4.1, §6). It consumes the profile as a line-at-a-time
// stream and emits a fully populated, frozen model.Profile without
// materializing the whole input in memory twice.
package parser

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/standardbeagle/cachelens/internal/aggregator"
	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
	"github.com/standardbeagle/cachelens/internal/model"
)

// DefaultMaxBytes is the ingest size cap applied when Options.MaxBytes is
// left at zero (spec §7, ParseError.InputTooLarge).
const DefaultMaxBytes = 100 * 1024 * 1024

// maxLineBytes bounds a single physical line; Callgrind/Cachegrind lines are
// always short (a handful of integers), so this is generous headroom, not a
// practical limit.
const maxLineBytes = 1 << 20

// Options configures a single parse.
type Options struct {
	// MaxBytes caps total input size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// state holds everything the parser needs to track between lines: the
// "current" pointers a real Callgrind stream carries as mutable ambient
// state. It is owned entirely by Parse and never escapes into the built
// Profile (spec §9).
type state struct {
	profile *model.Profile

	vocabSet       bool
	positionsInstr bool

	currentObjectFile string
	currentFile       *model.FileRecord
	currentFunction   *model.FunctionRecord

	pendingCallObjectFile string
	pendingCallFile       string
	pendingCallFunction   string
	pendingCallCount      uint64
	pendingCallActive     bool

	skipNextPCRow bool

	sawDataRow bool
	sawEvents  bool
	lineNum    int
}

// Parse reads a Cachegrind/Callgrind profile from r and returns the frozen,
// aggregated Profile. Only a missing vocabulary or an oversized input abort
// the parse (spec §7); malformed rows and unknown directives are skipped.
func Parse(r io.Reader, opts Options) (*model.Profile, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	st := &state{profile: model.NewProfile(nil, model.KindCachegrind)}

	var total int64
	for sc.Scan() {
		st.lineNum++
		line := sc.Text()
		total += int64(len(line)) + 1
		if total > maxBytes {
			return nil, cgerrors.NewParseError(cgerrors.ReasonInputTooLarge, st.lineNum, "")
		}

		if st.lineNum == 1 && strings.TrimSpace(line) == "# callgrind format" {
			st.profile.Kind = model.KindCallgrind
			continue
		}

		if err := st.handleLine(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if st.sawDataRow && !st.sawEvents {
		return nil, cgerrors.NewParseError(cgerrors.ReasonNoVocabulary, st.lineNum, "")
	}

	aggregator.Aggregate(st.profile)
	return st.profile, nil
}

func (st *state) handleLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "#") {
		return nil
	}

	if key, rest, ok := splitHeader(trimmed); ok {
		return st.handleHeader(key, rest)
	}
	if key, rest, ok := splitDirective(trimmed); ok {
		return st.handleDirective(key, rest)
	}

	return st.handleDataRow(trimmed)
}

// splitHeader recognizes "key: rest" header lines (spec §6 HEADER rule).
func splitHeader(line string) (key, rest string, ok bool) {
	for _, k := range []string{"events", "cmd", "pid", "positions", "part", "summary"} {
		if strings.HasPrefix(line, k+":") {
			return k, strings.TrimSpace(line[len(k)+1:]), true
		}
	}
	return "", "", false
}

// splitDirective recognizes "key=rest" directive lines (spec §6 DIRECTIVE
// rule).
func splitDirective(line string) (key, rest string, ok bool) {
	for _, k := range []string{"ob", "fl", "fi", "fe", "fn", "cob", "cfi", "cfn", "calls", "jump", "jcnd", "jfi"} {
		if strings.HasPrefix(line, k+"=") {
			return k, strings.TrimSpace(line[len(k)+1:]), true
		}
	}
	return "", "", false
}

func (st *state) handleHeader(key, rest string) error {
	switch key {
	case "events":
		if !st.vocabSet {
			st.profile.Vocabulary = model.NewEventVocabulary(strings.Fields(rest))
			st.vocabSet = true
			st.sawEvents = true
		}
	case "cmd":
		st.profile.Command = rest
	case "pid":
		st.profile.Pid = rest
	case "positions":
		st.positionsInstr = strings.Contains(rest, "instr")
	case "part":
		// ignored (spec §4.1)
	case "summary":
		fields := strings.Fields(rest)
		counts := parseCounts(fields)
		st.profile.Summary = counts
	}
	return nil
}

func (st *state) handleDirective(key, rest string) error {
	switch key {
	case "ob":
		st.currentObjectFile = rest
	case "fl":
		st.currentFile = st.profile.EnsureFile(rest)
		if st.currentFile.ObjectFile == "" {
			st.currentFile.ObjectFile = st.currentObjectFile
		}
	case "fi", "fe":
		// ignored for scope; lines keep attributing to current file.
	case "fn":
		if st.currentFile == nil {
			st.currentFile = st.profile.EnsureFile("")
		}
		st.currentFunction = st.currentFile.EnsureFunction(rest, st.profile.Vocabulary.Len())
		if st.currentFunction.ObjectFile == "" {
			st.currentFunction.ObjectFile = st.currentObjectFile
		}
	case "cob":
		st.pendingCallObjectFile = rest
	case "cfi":
		st.pendingCallFile = rest
	case "cfn":
		st.pendingCallFunction = rest
	case "calls":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil
		}
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil // malformed calls= row: skip without aborting
		}
		st.pendingCallCount = n
		st.pendingCallActive = true
	case "jump", "jcnd":
		st.skipNextPCRow = true
	case "jfi":
		// ignored
	}
	return nil
}

func parseCounts(fields []string) model.Counts {
	counts := make(model.Counts, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			continue // missing/malformed trailing counts default to 0
		}
		counts[i] = v
	}
	return counts
}
