// Package query is the stable outward interface the engine exposes to a UI
// collaborator (spec §4.8): load a profile, then look up files/functions,
// walk the call graph, search, resolve entry points, and disassemble —
// all as read-only views over one frozen model.Profile.
package query

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/standardbeagle/cachelens/internal/callgraph"
	"github.com/standardbeagle/cachelens/internal/disasm"
	"github.com/standardbeagle/cachelens/internal/entrypoint"
	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
	"github.com/standardbeagle/cachelens/internal/metrics"
	"github.com/standardbeagle/cachelens/internal/model"
	"github.com/standardbeagle/cachelens/internal/parser"
	"github.com/standardbeagle/cachelens/internal/search"
	"github.com/standardbeagle/cachelens/internal/sourceresolver"
)

// Options bundles every knob a Load needs across the pipeline's stages.
// Metrics is optional — a nil value disables instrumentation entirely.
type Options struct {
	Parse    parser.Options
	Resolver sourceresolver.Options
	Disasm   disasm.Options
	Search   search.Options
	Metrics  *metrics.Metrics
}

// Engine is a loaded, queryable profile. Every method is a pure read over
// state fixed at Load time; concurrent readers need no locking (spec §5).
type Engine struct {
	profile *model.Profile
	graph   *callgraph.Graph
	index   *search.Index
	parents search.ParentMap
	entry   *entrypoint.Matcher

	sourceFiles sourceresolver.Files
	resolverOpt sourceresolver.Options

	disasmCache *disasm.Cache
	metrics     *metrics.Metrics
}

// Load runs the full pipeline — parse, aggregate (inside the parser),
// build the call graph, and build both indices — and returns a ready-to-
// query Engine.
func Load(r io.Reader, sourceFiles sourceresolver.Files, opts Options) (*Engine, error) {
	start := time.Now()
	profile, err := parser.Parse(r, opts.Parse)
	if err != nil {
		if opts.Metrics != nil {
			if pe, ok := err.(*cgerrors.ParseError); ok {
				opts.Metrics.ParseErrorsTotal.WithLabelValues(string(pe.Reason)).Inc()
			}
		}
		return nil, err
	}
	if opts.Metrics != nil {
		opts.Metrics.ParseDuration.Observe(time.Since(start).Seconds())
		var lines int
		for _, path := range profile.FileOrder() {
			for _, fn := range profile.Files[path].Functions {
				lines += len(fn.Lines)
			}
		}
		opts.Metrics.LinesIngested.Add(float64(lines))
	}

	graph := callgraph.Build(profile)
	if opts.Metrics != nil {
		var edges int
		for _, id := range graph.Order() {
			edges += len(graph.Nodes[id].Out)
		}
		opts.Metrics.CallEdgesBuilt.Add(float64(edges))
	}

	return &Engine{
		profile:     profile,
		graph:       graph,
		index:       search.Build(graph, opts.Search),
		parents:     search.BuildParentMap(graph),
		entry:       entrypoint.Build(graph),
		sourceFiles: sourceFiles,
		resolverOpt: opts.Resolver,
		disasmCache: disasm.NewCache(opts.Disasm),
		metrics:     opts.Metrics,
	}, nil
}

// Profile returns the frozen data model (spec §3) directly, for callers
// that need more than the convenience views below.
func (e *Engine) Profile() *model.Profile { return e.profile }

// Graph returns the reconstructed call graph (spec §4.4).
func (e *Engine) Graph() *callgraph.Graph { return e.graph }

// File looks up a file's record by path.
func (e *Engine) File(path string) (*model.FileRecord, bool) {
	fr, ok := e.profile.Files[path]
	return fr, ok
}

// Function looks up a function by (file, name).
func (e *Engine) Function(file, name string) (*model.FunctionRecord, bool) {
	return e.profile.Function(file, name)
}

// Roots returns the call graph's root nodes (no incoming edges).
func (e *Engine) Roots() []*callgraph.Node { return e.graph.Roots }

// SubtreeFrom materializes the finite DFS tree rooted at entry (spec §4.4).
func (e *Engine) SubtreeFrom(entry callgraph.NodeID) *callgraph.Tree {
	return e.graph.SubtreeFrom(entry)
}

// Callers returns the nodes with an edge into id.
func (e *Engine) Callers(id callgraph.NodeID) []*callgraph.Node { return e.graph.Callers(id) }

// Callees returns the nodes id directly calls.
func (e *Engine) Callees(id callgraph.NodeID) []*callgraph.Node { return e.graph.Callees(id) }

// Search runs the inverted-index query (spec §4.5).
func (e *Engine) Search(q string) []callgraph.NodeID {
	if e.metrics == nil {
		return e.index.Query(q)
	}
	start := time.Now()
	results := e.index.Query(q)
	e.metrics.SearchQueryDuration.Observe(time.Since(start).Seconds())
	e.metrics.SearchQueriesTotal.Inc()
	return results
}

// ExpandAncestors returns the ancestor ids a UI should expand to reveal
// matches (spec §4.5).
func (e *Engine) ExpandAncestors(matches []callgraph.NodeID) []callgraph.NodeID {
	return search.ExpandAncestors(e.parents, matches)
}

// ResolveEntry resolves a user-typed string to a node (spec §4.6).
func (e *Engine) ResolveEntry(query string) (callgraph.NodeID, error) {
	id, ok := e.entry.Resolve(query)
	if !ok {
		return callgraph.NodeID{}, cgerrors.NewEntryError(query)
	}
	return id, nil
}

// SuggestEntry returns up to limit "did you mean" candidates.
func (e *Engine) SuggestEntry(query string, limit int) []entrypoint.Suggestion {
	return entrypoint.Suggest(e.entry, query, limit)
}

// SourceText resolves and caches a file's source content (spec §4.2).
func (e *Engine) SourceText(path string) (string, error) {
	fr, ok := e.File(path)
	if !ok {
		return "", cgerrors.NewResolveError(path)
	}
	if text, resolved := fr.SourceText(); resolved {
		return text, nil
	}
	text, err := sourceresolver.Resolve(path, e.sourceFiles, e.resolverOpt)
	if err != nil {
		fr.SetSourceText("", false)
		return "", err
	}
	fr.SetSourceText(text, true)
	return text, nil
}

// Disassemble runs the disassembler adapter over a function's PC range and
// joins the result against its profiled PC events (spec §4.7).
func (e *Engine) Disassemble(ctx context.Context, file, function string) ([]disasm.Instruction, error) {
	fn, ok := e.Function(file, function)
	if !ok {
		return nil, fmt.Errorf("function not found: %s:%s", file, function)
	}
	objectFile := fn.ObjectFile
	if objectFile == "" {
		if fr, ok := e.File(file); ok {
			objectFile = fr.ObjectFile
		}
	}

	lo, hi, ok := disasm.Range(fn.PCs)
	if !ok {
		return nil, fmt.Errorf("function %s has no PC data to disassemble", function)
	}

	start := time.Now()
	instrs, hit, err := e.disasmCache.Disassemble(ctx, objectFile, lo, hi)
	if e.metrics != nil {
		if hit {
			e.metrics.DisasmCacheHits.Inc()
		} else {
			e.metrics.DisasmCacheMisses.Inc()
			e.metrics.DisasmDuration.Observe(time.Since(start).Seconds())
		}
	}
	if err != nil {
		return nil, err
	}
	return disasm.JoinEvents(instrs, fn.PCs), nil
}

// Summary is a read-only convenience view over profile-wide totals.
type Summary struct {
	Vocabulary         []string
	Kind               string
	Command            string
	Pid                string
	FilesAnalyzed      int
	TotalCompiledLines int
	TotalCoveredLines  int
	OverallCoverage    float64
}

// Summary reports the profile-wide totals (spec §3).
func (e *Engine) Summary() Summary {
	return Summary{
		Vocabulary:         e.profile.Vocabulary.Names(),
		Kind:               e.profile.Kind.String(),
		Command:            e.profile.Command,
		Pid:                e.profile.Pid,
		FilesAnalyzed:      e.profile.FilesAnalyzed,
		TotalCompiledLines: e.profile.TotalCompiledLines,
		TotalCoveredLines:  e.profile.TotalCoveredLines,
		OverallCoverage:    e.profile.OverallCoverage,
	}
}
