package prolog

// Clause is a fact or a rule. A Fact's body is the implicit Atom("true").
type Clause struct {
	Head Term
	Body Term // Atom("true") for a fact
}

// IsFact reports whether c has no real body.
func (c Clause) IsFact() bool {
	a, ok := c.Body.(Atom)
	return ok && a == "true"
}

// ClauseDatabase keeps one list of clauses per (functor, arity), each
// in definition order; these lists are the whole store, and there is
// no ordering across different predicates. Mutable lists (rather than
// copy-on-write snapshots per query) are
// enough because query-time backtracking never needs to roll back
// database mutations: asserta/assertz/retract are permanent side
// effects that backtracking does not undo.
type ClauseDatabase struct {
	index map[Indicator][]*clauseEntry
}

type clauseEntry struct {
	clause Clause
	live   bool
}

// NewClauseDatabase returns an empty database.
func NewClauseDatabase() *ClauseDatabase {
	return &ClauseDatabase{index: make(map[Indicator][]*clauseEntry)}
}

func indicatorOfHead(head Term) Indicator {
	pi, ok := IndicatorOf(head)
	if !ok {
		return Indicator{}
	}
	return pi
}

// AddLast appends a clause to the end of its predicate's definition
// order — the effect of assertz/1.
func (db *ClauseDatabase) AddLast(c Clause) {
	entry := &clauseEntry{clause: c, live: true}
	pi := indicatorOfHead(c.Head)
	db.index[pi] = append(db.index[pi], entry)
}

// AddFirst inserts a clause at the front of its predicate's definition
// order — the effect of asserta/1.
func (db *ClauseDatabase) AddFirst(c Clause) {
	entry := &clauseEntry{clause: c, live: true}
	pi := indicatorOfHead(c.Head)
	db.index[pi] = append([]*clauseEntry{entry}, db.index[pi]...)
}

// Candidates returns the live clauses for (functor, arity) in
// definition order.
func (db *ClauseDatabase) Candidates(pi Indicator) []Clause {
	entries := db.index[pi]
	out := make([]Clause, 0, len(entries))
	for _, e := range entries {
		if e.live {
			out = append(out, e.clause)
		}
	}
	return out
}

// RemoveFirstMatching unifies template against each live clause's head
// (in definition order) using a scratch environment; the first
// matching clause is marked dead (its entry stays in the index, and
// Candidates skips it). The
// unification itself is discarded — only its success/failure matters
// — the caller's environment is untouched. Used by retract/1, which
// is single-shot: it does not retry for a second match on backtracking.
func (db *ClauseDatabase) RemoveFirstMatching(template Term, occursCheck bool, gen varGen) bool {
	pi, ok := IndicatorOf(template)
	if !ok {
		return false
	}
	for _, e := range db.index[pi] {
		if !e.live {
			continue
		}
		scratch := NewEnvironment()
		renamed := renameTerm(e.clause.Head, gen, newRenameMap())
		if Unify(template, renamed, scratch, occursCheck) {
			e.live = false
			return true
		}
	}
	return false
}
