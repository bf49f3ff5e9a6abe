package ram

// Program is the translator's final output: the full relation table, the
// main statement, and every named provenance subroutine (§4.F), keyed by
// subroutine name (`<relName>_<clauseNum>_subproof` and
// `<relName>_<clauseNum>_negation_subproof`).
type Program struct {
	Relations  []*Relation
	Main       Statement
	Subroutine map[string]Statement
}

func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	out := &Program{Main: CloneStatement(p.Main)}
	if p.Relations != nil {
		out.Relations = make([]*Relation, len(p.Relations))
		for i, r := range p.Relations {
			out.Relations[i] = r.Clone()
		}
	}
	if p.Subroutine != nil {
		out.Subroutine = make(map[string]Statement, len(p.Subroutine))
		for k, v := range p.Subroutine {
			out.Subroutine[k] = CloneStatement(v)
		}
	}
	return out
}

func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.Relations) != len(o.Relations) || len(p.Subroutine) != len(o.Subroutine) {
		return false
	}
	for i := range p.Relations {
		if !p.Relations[i].Equal(o.Relations[i]) {
			return false
		}
	}
	for k, v := range p.Subroutine {
		ov, ok := o.Subroutine[k]
		if !ok || !StatementEqual(v, ov) {
			return false
		}
	}
	return StatementEqual(p.Main, o.Main)
}

// RelationTable indexes Relations by name, built once by the driver and
// shared read-only with the relation translator (§3 Lifecycle, §5).
type RelationTable map[string]*Relation

func NewRelationTable(rels []*Relation) RelationTable {
	t := make(RelationTable, len(rels))
	for _, r := range rels {
		t[r.Name] = r
	}
	return t
}
