package ast

// This file declares the named-analysis contracts the core consumes as
// external collaborators (§6): computing them is out of scope, but the
// translator depends on their exact shapes.

// AuxiliaryArity resolves a relation's auxiliary (provenance/annotation)
// column count. `@delta_X`/`@new_X` resolve by stripping the prefix and
// consulting the original relation `X`; `@info_` relations report 0
// unconditionally (§6).
type AuxiliaryArity interface {
	AuxiliaryArity(relationName string) int
}

// TypeEnvironment resolves a relation attribute's declared type qualifier,
// used when building RAM relation attribute lists in the driver (4.G).
type TypeEnvironment interface {
	AttributeType(relationName string, column int) string
}

// RecursiveClauses reports whether a given clause participates in a
// recursive SCC; the relation translator (4.E) uses it to separate a
// relation's clauses into non-recursive and recursive sets.
type RecursiveClauses interface {
	IsRecursive(clause *Clause) bool
}

// SCCGraph reports, for a relation, the set of relation names forming its
// strongly connected component. A non-recursive relation's SCC contains
// only itself.
type SCCGraph interface {
	SCC(relationName string) []string
	IsRecursiveSCC(relationName string) bool
}

// TopologicalOrder gives the SCC processing order the program driver (4.G)
// follows: each entry is one representative relation name per SCC, ordered
// so that a relation is always processed before anything depending on it.
type TopologicalOrder interface {
	Order() []string
}

// RelationSchedule reports, for a relation, the topological SCC index at
// which it expires (its last reader has been processed) so the driver can
// emit a Clear once provenance is not enabled (4.G step 3).
type RelationSchedule interface {
	ExpiresAt(relationName string) (index int, expires bool)
}

// SymbolTable, ErrorReport and DebugReport are the three process-wide sinks
// §6 names as part of the input translation unit. The core neither reads
// nor writes any of the three; they are declared here so callers can thread
// them through unchanged.
type SymbolTable interface {
	Lookup(index int64) string
	Intern(s string) int64
}

type ErrorReport interface {
	Errors() []error
}

type DebugReport interface {
	AddSection(title, body string)
}
