package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountsAdd(t *testing.T) {
	c := NewCounts(2)
	c.Add(Counts{1, 2})
	c.Add(Counts{3, 4, 5}) // longer than c, should grow c
	require.Equal(t, Counts{4, 6, 5}, c)
}

func TestCountsAnyNonZero(t *testing.T) {
	require.False(t, Counts{0, 0, 0}.AnyNonZero())
	require.True(t, Counts{0, 1, 0}.AnyNonZero())
}

func TestEventVocabulary(t *testing.T) {
	vocab := NewEventVocabulary([]string{"Ir", "Cy", "Dr"})
	require.Equal(t, 3, vocab.Len())
	require.Equal(t, []string{"Ir", "Cy", "Dr"}, vocab.Names())

	idx, ok := vocab.IndexOf("Cy")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = vocab.IndexOf("missing")
	require.False(t, ok)
}

func TestEventVocabularyPrimaryPrefersCy(t *testing.T) {
	withCy := NewEventVocabulary([]string{"Ir", "Cy"})
	require.Equal(t, 1, withCy.Primary())

	withoutCy := NewEventVocabulary([]string{"Ir", "Dr"})
	require.Equal(t, 0, withoutCy.Primary())
}

func TestFunctionRecordRecordLineAggregates(t *testing.T) {
	fn := NewFunctionRecord("main.c", "main", 2)

	fn.RecordLine(10, Counts{1, 0})
	fn.RecordLine(10, Counts{2, 0}) // second row for the same line, same PC or not

	rec, ok := fn.Lines[10]
	require.True(t, ok)
	require.Equal(t, Counts{3, 0}, rec.Counts)
	require.True(t, rec.Executed)
	require.Equal(t, Counts{3, 0}, fn.Exclusive)
	require.Equal(t, []int{10}, fn.LineOrder())
}

func TestFunctionRecordFinalizeCoveragePartitions(t *testing.T) {
	fn := NewFunctionRecord("main.c", "main", 1)
	fn.RecordLine(1, Counts{1})
	fn.RecordLine(2, Counts{0})
	fn.FinalizeCoverage()

	require.Equal(t, []int{1}, fn.Covered)
	require.Equal(t, []int{2}, fn.Uncovered)
}

func TestFunctionRecordPCRange(t *testing.T) {
	fn := NewFunctionRecord("main.c", "main", 1)
	start, end := fn.PCRange()
	require.Equal(t, "", start)
	require.Equal(t, "", end)

	fn.RecordPC("0x400100", 1, Counts{1})
	fn.RecordPC("0x400050", 1, Counts{1})
	fn.RecordPC("0x4000f0", 1, Counts{1})

	start, end = fn.PCRange()
	require.Equal(t, "0x400050", start)
	require.Equal(t, "0x400100", end)
}

func TestFileRecordFinalizeCoverageUnionsAcrossFunctions(t *testing.T) {
	fr := NewFileRecord("main.c")
	f1 := fr.EnsureFunction("a", 1)
	f1.RecordLine(5, Counts{1}) // executed in a
	f1.FinalizeCoverage()

	f2 := fr.EnsureFunction("b", 1)
	f2.RecordLine(5, Counts{0}) // same line, unexecuted sighting in b
	f2.FinalizeCoverage()

	fr.FinalizeCoverage()

	require.Equal(t, []int{5}, fr.Covered)
	require.Empty(t, fr.Uncovered)
	require.Equal(t, 1, fr.CompiledLines)
	require.InDelta(t, 100.0, fr.Coverage, 0.001)
}

func TestProfileFileOrder(t *testing.T) {
	p := NewProfile(NewEventVocabulary([]string{"Ir"}), KindCallgrind)
	p.EnsureFile("b.c")
	p.EnsureFile("a.c")
	p.EnsureFile("b.c") // repeat, must not reorder

	require.Equal(t, []string{"b.c", "a.c"}, p.FileOrder())
	require.Equal(t, "callgrind", p.Kind.String())
}
