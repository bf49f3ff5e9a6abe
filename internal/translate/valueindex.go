// Package translate lowers a validated ast.Program into a ram.Program: the
// clause translator (value index, value/constraint translation, operation
// assembly), the relation scheduler (non-recursive and semi-naive
// recursive code generation), the provenance subroutine builder, and the
// program driver that ties them together.
package translate

import "github.com/ramlang/ramc/pkg/ast"

// Location identifies the first binding site of a variable, record, or
// aggregator within one clause translation: a nesting level plus a column
// within that level's tuple (§3 "Location").
type Location struct {
	Level  int
	Column int
}

// valueIndex is the per-clause state the value translator consults to turn
// a variable/record/aggregator reference into a Location (§4.A).
type valueIndex struct {
	// varLocations records every location at which a variable name is
	// referenced, in the order encountered; the first entry is the
	// variable's definition point.
	varLocations map[string][]Location
	// varRelation records, for the variable's first (outermost) atom
	// reference only, which relation bound it. No translation step reads
	// it.
	varRelation map[string]string

	recordLocations map[*ast.RecordInit]Location

	// aggregatorLocations maps an aggregator's structural hash to both its
	// allocated Location and a representative node, so a second
	// structurally-equal aggregator resolves to the same location instead
	// of allocating a new level (§4.A "Equality of aggregators is
	// structural").
	aggregatorLocations map[uint64]Location
	aggregatorNodes     map[uint64]*ast.Aggregator

	// aggregatorLevels marks every nesting level introduced for an
	// aggregator, so equality-filter assembly (4.D phase 4 step 1) can skip
	// them.
	aggregatorLevels map[int]bool
}

func newValueIndex() *valueIndex {
	return &valueIndex{
		varLocations:        map[string][]Location{},
		varRelation:         map[string]string{},
		recordLocations:     map[*ast.RecordInit]Location{},
		aggregatorLocations: map[uint64]Location{},
		aggregatorNodes:     map[uint64]*ast.Aggregator{},
		aggregatorLevels:    map[int]bool{},
	}
}

// addVarReference records that variable name is bound at (level, column);
// relation is recorded only the first time a given variable is seen at its
// outermost (atom) reference.
func (vi *valueIndex) addVarReference(name string, level, column int, relation string) {
	vi.varLocations[name] = append(vi.varLocations[name], Location{Level: level, Column: column})
	if relation != "" {
		if _, ok := vi.varRelation[name]; !ok {
			vi.varRelation[name] = relation
		}
	}
}

// definitionPoint returns the first recorded location for name; it panics
// if name was never bound, since every variable reaching the value
// translator is assumed grounded upstream (§7 fatal assertion).
func (vi *valueIndex) definitionPoint(name string) Location {
	locs, ok := vi.varLocations[name]
	if !ok || len(locs) == 0 {
		panic("translate: ungrounded variable " + name)
	}
	return locs[0]
}

func (vi *valueIndex) setRecordDefinition(rec *ast.RecordInit, loc Location) {
	vi.recordLocations[rec] = loc
}

func (vi *valueIndex) recordDefinitionPoint(rec *ast.RecordInit) Location {
	loc, ok := vi.recordLocations[rec]
	if !ok {
		panic("translate: record initialiser has no recorded definition point")
	}
	return loc
}

// resolveAggregator returns the Location for agg, allocating a new one
// (via alloc) the first time a structurally-equal aggregator is seen.
func (vi *valueIndex) resolveAggregator(agg *ast.Aggregator, alloc func() Location) (loc Location, isNew bool) {
	h := agg.StructuralHash()
	if existing, ok := vi.aggregatorLocations[h]; ok {
		return existing, false
	}
	loc = alloc()
	vi.aggregatorLocations[h] = loc
	vi.aggregatorNodes[h] = agg
	vi.aggregatorLevels[loc.Level] = true
	return loc, true
}

func (vi *valueIndex) aggregatorLocation(agg *ast.Aggregator) Location {
	loc, ok := vi.aggregatorLocations[agg.StructuralHash()]
	if !ok {
		panic("translate: aggregator has no recorded location")
	}
	return loc
}

func (vi *valueIndex) isAggregatorLevel(level int) bool {
	return vi.aggregatorLevels[level]
}

// variableReferences returns every recorded variable and its full location
// list, for equality-filter assembly (4.D phase 4 step 1).
func (vi *valueIndex) variableReferences() map[string][]Location {
	return vi.varLocations
}
