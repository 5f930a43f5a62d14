package prolog

// Environment is the process-local, mutable binding store: a union-find
// forest over VarIDs plus a trail of bindings, so backtracking can undo
// exactly the bindings made since a checkpoint in O(k) time, independent
// of the environment's total size.
//
// A copy-on-write substitution map would also work, but cloning a map
// on every binding does not give the O(1) checkpoint the resolver's
// clause-trial loop depends on.
type Environment struct {
	parent map[VarID]Term // union-find parent pointer; absent = unbound root
	trail  []trailEntry   // pointer changes made, in order, for undo
	marks  []int          // checkpoint positions (trail lengths)
}

// trailEntry records one change to parent: prev is what id pointed to
// before the change, or nil if id was an unbound root.
type trailEntry struct {
	id   VarID
	prev Term
}

// NewEnvironment creates an empty environment. One is created per
// top-level query and discarded when the query's solution stream is
// drained or abandoned.
func NewEnvironment() *Environment {
	return &Environment{parent: make(map[VarID]Term)}
}

// Checkpoint is an opaque trail position returned by Mark.
type Checkpoint int

// Find walks v's parent pointers, applying path compression, until it
// reaches either an unbound root variable or a non-variable term. Every
// redirected pointer from path compression is itself recorded on the
// trail, so Undo restores logical equivalence (not necessarily pointer
// identity).
func (e *Environment) Find(v VarID) Term {
	var chain []VarID
	cur := v
	for {
		t, ok := e.parent[cur]
		if !ok {
			// cur is an unbound root; compress the chain to point at it.
			root := Var{ID: cur}
			for _, id := range chain {
				e.trail = append(e.trail, trailEntry{id: id, prev: e.parent[id]})
				e.parent[id] = root
			}
			return root
		}
		nextVar, isVar := t.(Var)
		if !isVar {
			for _, id := range chain {
				e.trail = append(e.trail, trailEntry{id: id, prev: e.parent[id]})
				e.parent[id] = t
			}
			return t
		}
		chain = append(chain, cur)
		cur = nextVar.ID
	}
}

// Deref dereferences an arbitrary term one logical hop: if t is a
// variable, it resolves through Find; otherwise t is returned unchanged.
// This is the operation the unifier and resolver use before inspecting
// a term's shape.
func (e *Environment) Deref(t Term) Term {
	if v, ok := t.(Var); ok {
		return e.Find(v.ID)
	}
	return t
}

// Bind records v := t. Precondition: v is a root (unbound) variable and
// t is not Var{ID: v}.
func (e *Environment) Bind(v VarID, t Term) {
	e.parent[v] = t
	e.trail = append(e.trail, trailEntry{id: v})
}

// Mark pushes the current trail length as a checkpoint and returns it.
func (e *Environment) Mark() Checkpoint {
	cp := Checkpoint(len(e.trail))
	e.marks = append(e.marks, int(cp))
	return cp
}

// Undo pops trail entries back to cp, restoring each popped pointer to
// what it held before (removing it where the variable was unbound).
// Checkpoints taken after cp are invalidated — callers must not
// reuse them. After Undo, the environment is bit-identical in its
// logical content to its state when cp was marked.
func (e *Environment) Undo(cp Checkpoint) {
	for len(e.trail) > int(cp) {
		last := e.trail[len(e.trail)-1]
		if last.prev == nil {
			delete(e.parent, last.id)
		} else {
			e.parent[last.id] = last.prev
		}
		e.trail = e.trail[:len(e.trail)-1]
	}
	for len(e.marks) > 0 && e.marks[len(e.marks)-1] >= int(cp) {
		e.marks = e.marks[:len(e.marks)-1]
	}
}

// TrailLen reports the current trail length, mostly useful for tests
// asserting that backtracking left no residue.
func (e *Environment) TrailLen() int { return len(e.trail) }
