package prolog

// Unify attempts to make t1 and t2 syntactically identical by binding
// variables in env, recording every mutation on env's trail. It does
// NOT undo on failure: the caller is expected to bracket the call with
// Mark/Undo, keeping the unifier itself free of exception flow and
// leaving the choice of whether and when to roll back to the caller.
//
// occursCheck, when true, rejects a binding that would make a
// variable contain itself (e.g. X = f(X)), at the cost of a full walk
// of the right-hand term on every variable binding. Unify itself takes
// no position on the default; Runtime.New turns it on by default (see
// Runtime.occurs) and WithOccursCheck(false) opts back out.
func Unify(t1, t2 Term, env *Environment, occursCheck bool) bool {
	t1 = env.Deref(t1)
	t2 = env.Deref(t2)

	if v1, ok := t1.(Var); ok {
		if v2, ok := t2.(Var); ok && v1.ID == v2.ID {
			return true
		}
		if occursCheck && occurs(v1.ID, t2, env) {
			return false
		}
		env.Bind(v1.ID, t2)
		return true
	}
	if v2, ok := t2.(Var); ok {
		if occursCheck && occurs(v2.ID, t1, env) {
			return false
		}
		env.Bind(v2.ID, t1)
		return true
	}

	switch a := t1.(type) {
	case Atom:
		b, ok := t2.(Atom)
		return ok && a == b
	case Number:
		b, ok := t2.(Number)
		return ok && a.IsFloat == b.IsFloat && a.Int == b.Int && a.Float == b.Float
	case String:
		b, ok := t2.(String)
		return ok && a == b
	case Compound:
		b, ok := t2.(Compound)
		if !ok || a.Functor != b.Functor || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Unify(a.Args[i], b.Args[i], env, occursCheck) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// occurs reports whether v appears anywhere inside t, following
// bindings through env. Used to reject unifications like X = f(X)
// that would otherwise build an infinite term.
func occurs(v VarID, t Term, env *Environment) bool {
	t = env.Deref(t)
	switch x := t.(type) {
	case Var:
		return x.ID == v
	case Compound:
		for _, arg := range x.Args {
			if occurs(v, arg, env) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// StructurallyEqual reports whether t1 and t2 are identical after
// dereferencing, without binding anything — the semantics of '=='/2.
// Two distinct unbound variables are never equal.
func StructurallyEqual(t1, t2 Term, env *Environment) bool {
	t1 = env.Deref(t1)
	t2 = env.Deref(t2)

	switch a := t1.(type) {
	case Var:
		b, ok := t2.(Var)
		return ok && a.ID == b.ID
	case Atom:
		b, ok := t2.(Atom)
		return ok && a == b
	case Number:
		b, ok := t2.(Number)
		return ok && a.IsFloat == b.IsFloat && a.Int == b.Int && a.Float == b.Float
	case String:
		b, ok := t2.(String)
		return ok && a == b
	case Compound:
		b, ok := t2.(Compound)
		if !ok || a.Functor != b.Functor || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !StructurallyEqual(a.Args[i], b.Args[i], env) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
