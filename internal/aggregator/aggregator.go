// Package aggregator implements the post-parse pass (spec §4.3): per-file
// coverage rollups computed from the union of each file's functions, and
// the project-wide totals the Query API reports. Call-graph inclusive-cost
// roll-ups are a separate concern, owned by internal/callgraph (spec §4.4).
package aggregator

import "github.com/standardbeagle/cachelens/internal/model"

// Aggregate finalizes every function and file's coverage partition and
// derives the profile's project-wide totals. It is the single mutation
// pass that runs between the streaming parser and freezing the Profile for
// query use (spec §3 Lifecycle).
func Aggregate(p *model.Profile) {
	p.FilesAnalyzed = len(p.FileOrder())
	p.TotalCompiledLines = 0
	p.TotalCoveredLines = 0

	for _, path := range p.FileOrder() {
		fr := p.Files[path]
		for _, name := range fr.FunctionOrder() {
			fr.Functions[name].FinalizeCoverage()
		}
		fr.FinalizeCoverage()
		p.TotalCompiledLines += fr.CompiledLines
		p.TotalCoveredLines += len(fr.Covered)
	}

	if p.TotalCompiledLines == 0 {
		p.OverallCoverage = 0
		return
	}
	p.OverallCoverage = float64(p.TotalCoveredLines) / float64(p.TotalCompiledLines) * 100
}
