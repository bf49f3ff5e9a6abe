package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/internal/iodirectives"
	"github.com/ramlang/ramc/pkg/ast"
	"github.com/ramlang/ramc/pkg/ram"
)

// Analyses bundles the named-analysis contracts §6 lists as the
// translation unit's external collaborators; the driver consults each
// exactly as §4.G describes.
type Analyses struct {
	Types     ast.TypeEnvironment
	Recursive ast.RecursiveClauses
	SCC       ast.SCCGraph
	Order     ast.TopologicalOrder
	Schedule  ast.RelationSchedule
	AuxArity  ast.AuxiliaryArity
}

// Translate implements §4.G end to end: relation table construction, the
// per-SCC load/compute/store/clear sequence in topological order, the
// provenance subroutine pass, and final program assembly.
func Translate(program *ast.Program, an Analyses, cfg *config.Config) (*ram.Program, error) {
	relations, ramTable := buildRelationTable(program, an)

	var main ram.Statement
	var merr *multierror.Error

	for idx, rep := range an.Order.Order() {
		scc := an.SCC.SCC(rep)

		for _, name := range scc {
			rel := program.Relation(name)
			loads, err := iodirectives.Input(rel, cfg)
			if err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			for _, d := range loads {
				main = ram.AppendStatement(main, &ram.Load{Relation: name, Directive: d})
			}
		}

		if an.SCC.IsRecursiveSCC(rep) {
			main = ram.AppendStatement(main, TranslateRecursiveRelation(scc, program, ramTable, cfg, an.AuxArity, an.Recursive))
		} else {
			for _, name := range scc {
				main = ram.AppendStatement(main, TranslateNonRecursiveRelation(program.Relation(name), cfg, an.AuxArity, an.Recursive))
			}
		}

		for _, name := range scc {
			rel := program.Relation(name)
			stores, err := iodirectives.Output(rel, cfg, an.AuxArity.AuxiliaryArity(name))
			if err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			for _, d := range stores {
				main = ram.AppendStatement(main, &ram.Store{Relation: name, Directive: d})
			}
		}

		if !cfg.Provenance.Enabled() {
			for _, name := range scc {
				if expIdx, expires := an.Schedule.ExpiresAt(name); expires && expIdx == idx {
					main = ram.AppendStatement(main, &ram.Clear{Relation: name})
				}
			}
		}
	}

	subroutines := buildSubroutines(program, cfg, an.AuxArity)

	if cfg.Profile {
		main = &ram.LogTimer{Label: "@program", Inner: main}
	}

	return &ram.Program{Relations: relations, Main: main, Subroutine: subroutines}, merr.ErrorOrNil()
}

// buildRelationTable implements §4.G step 2: one ram.Relation per AST
// relation reachable from the topological order, plus @delta_/@new_
// shadow relations for every relation in a recursive SCC.
func buildRelationTable(program *ast.Program, an Analyses) ([]*ram.Relation, ram.RelationTable) {
	var relations []*ram.Relation
	table := ram.RelationTable{}

	for _, rep := range an.Order.Order() {
		recursive := an.SCC.IsRecursiveSCC(rep)
		for _, name := range an.SCC.SCC(rep) {
			rel := program.Relation(name)
			ramRel := buildRAMRelation(rel, an)
			relations = append(relations, ramRel)
			table[ramRel.Name] = ramRel

			if recursive {
				delta := ramRel.Clone()
				delta.Name = "@delta_" + ramRel.Name
				newRel := ramRel.Clone()
				newRel.Name = "@new_" + ramRel.Name
				relations = append(relations, delta, newRel)
				table[delta.Name] = delta
				table[newRel.Name] = newRel
			}
		}
	}
	return relations, table
}

func buildRAMRelation(rel *ast.Relation, an Analyses) *ram.Relation {
	aux := an.AuxArity.AuxiliaryArity(rel.Name)
	total := len(rel.Attributes) + aux
	names := make([]string, total)
	types := make([]string, total)
	for i := 0; i < total; i++ {
		if i < len(rel.Attributes) {
			names[i] = rel.Attributes[i].Name
		} else {
			names[i] = fmt.Sprintf("aux_%d", i-len(rel.Attributes))
		}
		types[i] = an.Types.AttributeType(rel.Name, i)
	}
	return &ram.Relation{
		Name:           rel.Name,
		Arity:          total,
		AuxiliaryArity: aux,
		AttributeNames: names,
		AttributeTypes: types,
		Representation: rel.Representation,
	}
}

// buildSubroutines implements §4.G step 4: when provenance is enabled,
// every clause whose head is not an @info_ relation and whose body is
// non-empty contributes a subproof and a negation-subproof (§4.F).
// Relations are walked in sorted order so subroutine emission is
// deterministic despite program.Relations being a Go map.
func buildSubroutines(program *ast.Program, cfg *config.Config, auxArity ast.AuxiliaryArity) map[string]ram.Statement {
	if !cfg.Provenance.Enabled() {
		return map[string]ram.Statement{}
	}

	names := make([]string, 0, len(program.Relations))
	for name := range program.Relations {
		names = append(names, name)
	}
	sort.Strings(names)

	subroutines := map[string]ram.Statement{}
	for _, name := range names {
		rel := program.Relations[name]
		if strings.HasPrefix(rel.Name, "@info_") {
			continue
		}
		for _, cl := range rel.Clauses {
			if len(cl.Body) == 0 {
				continue
			}
			subroutines[SubproofName(rel.Name, cl.ClauseNum)] = MakeSubproofSubroutine(cl, cfg, auxArity)
			subroutines[NegationSubproofName(rel.Name, cl.ClauseNum)] = MakeNegationSubproofSubroutine(cl, auxArity)
		}
	}
	return subroutines
}
