// Package disasm implements the disassembler adapter (spec §4.7): it shells
// out to an external disassembly tool over a (object file, PC range) and
// parses its output into (pc, instruction) pairs, joined against a
// function's PcRecord events.
package disasm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
	"github.com/standardbeagle/cachelens/internal/model"
)

// DefaultTool is the disassembler executable used when Options.Tool is
// empty.
const DefaultTool = "objdump"

var instructionLine = regexp.MustCompile(`^[ ]*([0-9a-fA-F]+):[ \t]+(.+)$`)

// Options configures one disassembler invocation.
type Options struct {
	// Tool is the executable name or path. Empty means DefaultTool.
	Tool string
}

// Instruction is one disassembled line, optionally joined against the
// function's profiled events at that PC.
type Instruction struct {
	PC        string
	Text      string
	Executed  bool
	Counts    model.Counts
	HasCounts bool
}

// Disassemble invokes the configured tool against objectFile over
// [lo, hi] and returns the parsed instruction stream. Failures are
// classified per spec §4.7; an empty stdout is not an error.
func Disassemble(ctx context.Context, objectFile string, lo, hi uint64, opts Options) ([]Instruction, error) {
	tool := opts.Tool
	if tool == "" {
		tool = DefaultTool
	}

	toolPath, err := exec.LookPath(tool)
	if err != nil {
		return nil, cgerrors.NewDisasmError(cgerrors.DisasmToolMissing, objectFile, err)
	}

	if f, err := os.Open(objectFile); err != nil {
		if os.IsPermission(err) {
			return nil, cgerrors.NewDisasmError(cgerrors.DisasmPermissionDenied, objectFile, err)
		}
		return nil, cgerrors.NewDisasmError(cgerrors.DisasmIO, objectFile, err)
	} else {
		f.Close()
	}

	cmd := exec.CommandContext(ctx, toolPath,
		"--disassemble",
		"--demangle",
		fmt.Sprintf("--start-address=0x%x", lo),
		fmt.Sprintf("--stop-address=0x%x", hi),
		objectFile,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	combined := stdout.String() + stderr.String()
	if strings.Contains(combined, "File format not recognized") {
		return nil, cgerrors.NewDisasmError(cgerrors.DisasmInvalidObject, objectFile, runErr)
	}
	if runErr != nil {
		return nil, cgerrors.NewDisasmError(cgerrors.DisasmIO, objectFile, runErr)
	}

	return parseInstructions(stdout.String()), nil
}

func parseInstructions(output string) []Instruction {
	var out []Instruction
	for _, line := range strings.Split(output, "\n") {
		m := instructionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, Instruction{
			PC:   "0x" + strings.ToLower(m[1]),
			Text: strings.TrimSpace(m[2]),
		})
	}
	return out
}

// JoinEvents attaches per-PC profiled events to each instruction, by
// looking the instruction's PC up in pcs. Instructions with no matching
// PcRecord are left without counts — the join tolerates PCs the profile
// never saw (spec §4.7).
func JoinEvents(instrs []Instruction, pcs map[string]*model.PcRecord) []Instruction {
	out := make([]Instruction, len(instrs))
	copy(out, instrs)
	for i := range out {
		if rec, ok := pcs[out[i].PC]; ok {
			out[i].Counts = rec.Counts
			out[i].Executed = rec.Executed
			out[i].HasCounts = true
		}
	}
	return out
}

// Range picks the disassembly range a caller should request for a
// function's PC set: (min PC - 16, max PC + 64), per spec §4.7.
func Range(pcs map[string]*model.PcRecord) (lo, hi uint64, ok bool) {
	first := true
	for pc := range pcs {
		v, err := strconv.ParseUint(strings.TrimPrefix(pc, "0x"), 16, 64)
		if err != nil {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if first {
		return 0, 0, false
	}
	if lo >= 16 {
		lo -= 16
	} else {
		lo = 0
	}
	hi += 64
	return lo, hi, true
}
