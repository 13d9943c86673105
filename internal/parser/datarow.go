package parser

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/cachelens/internal/model"
)

// isHexPC reports whether tok looks like a "0x"-prefixed hex PC (spec §6,
// PC := "0x" HEX+).
func isHexPC(tok string) bool {
	if !strings.HasPrefix(tok, "0x") || len(tok) == 2 {
		return false
	}
	for _, c := range tok[2:] {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// handleDataRow parses one DATA row (spec §6) and folds it into the current
// file/function's aggregates, optionally completing a pending call edge and
// honoring a pending jump/jcnd skip.
func (st *state) handleDataRow(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	pc := ""
	rest := fields
	if st.positionsInstr {
		if !isHexPC(fields[0]) {
			return nil // malformed: instr mode requires a PC-prefixed row
		}
		pc = normalizePC(fields[0])
		rest = fields[1:]
	}

	if len(rest) == 0 {
		return nil // no line number: malformed
	}
	line64, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return nil // malformed line field: skip without aborting
	}
	lineNo := int(line64)
	counts := parseCounts(rest[1:])

	if st.skipNextPCRow {
		st.skipNextPCRow = false
		if pc != "" {
			return nil
		}
	}

	st.sawDataRow = true

	if st.currentFile == nil {
		st.currentFile = st.profile.EnsureFile("")
	}
	if st.currentFunction == nil {
		st.currentFunction = st.currentFile.EnsureFunction("", st.profile.Vocabulary.Len())
	}

	st.currentFunction.RecordLine(lineNo, counts)
	if pc != "" {
		st.currentFunction.RecordPC(pc, lineNo, counts)
	}

	if st.pendingCallActive {
		st.pendingCallActive = false
		edge := &model.CallEdge{
			SourceFunction: st.currentFunction.Name,
			SourceFile:     st.currentFile.Path,
			SourcePC:       pc,
			TargetFile:     st.pendingCallFile,
			TargetFunction: st.pendingCallFunction,
			Count:          st.pendingCallCount,
			Inclusive:      counts.Clone(),
		}
		st.currentFunction.Calls = append(st.currentFunction.Calls, edge)
	}

	return nil
}

// normalizePC lowercases a PC token; Callgrind emits lowercase hex but the
// grammar doesn't require it of well-behaved producers.
func normalizePC(tok string) string {
	return "0x" + strings.ToLower(tok[2:])
}
