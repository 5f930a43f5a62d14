package prolog

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// varGen mints fresh, globally unique VarIDs. Clause renaming and
// retract's scratch unification both draw from the same Runtime-owned
// counter so that a VarID is never reused across the whole process,
// not just within one query.
type varGen func() VarID

// Machine is the resolution engine: it owns no state of its own beyond
// configuration and a reference to the database it resolves against.
// Runtime (runtime.go) is the user-facing facade; Machine is the
// engine a single query drives.
type Machine struct {
	DB          *ClauseDatabase
	Ops         *OperatorTable
	OccursCheck bool
	Logger      *logrus.Logger
	Out         io.Writer
	counter     *int64
}

func (m *Machine) gen() VarID { return VarID(atomic.AddInt64(m.counter, 1)) }

func (m *Machine) writeOut(s string) {
	if m.Out != nil {
		io.WriteString(m.Out, s)
	}
}

// Solve enumerates success environments for goal, lazily, as a Stream.
// barrier is the cut barrier for the clause invocation goal lexically
// belongs to — '!' sets barrier.Fired and conjunction/disjunction thread
// the same barrier through; \+/1 and the condition of ->/2 install a
// fresh, opaque barrier of their own.
func (m *Machine) Solve(ctx context.Context, goal Term, env *Environment, barrier *cutBarrier) *Stream {
	goal = env.Deref(goal)

	switch g := goal.(type) {
	case Atom:
		switch g {
		case "true":
			return singletonStream(env)
		case "fail", "false":
			return emptyStream()
		case "!":
			return m.solveCut(env, barrier)
		case "nl":
			return m.solveNl(env)
		}
		return m.resolveUserGoal(ctx, goal, env, barrier)

	case Compound:
		switch {
		case g.Functor == conjName && len(g.Args) == 2:
			return m.solveConj(ctx, g.Args[0], g.Args[1], env, barrier)
		case g.Functor == disjName && len(g.Args) == 2:
			return m.solveDisjOrIfte(ctx, g, env, barrier)
		case g.Functor == negName && len(g.Args) == 1:
			return m.solveNegation(ctx, g.Args[0], env)
		case g.Functor == "=" && len(g.Args) == 2:
			return m.solveUnifyGoal(g.Args[0], g.Args[1], env)
		case g.Functor == `\=` && len(g.Args) == 2:
			return m.solveNotUnifiable(g.Args[0], g.Args[1], env)
		case g.Functor == "==" && len(g.Args) == 2:
			return boolStream(StructurallyEqual(g.Args[0], g.Args[1], env), env)
		case g.Functor == `\==` && len(g.Args) == 2:
			return boolStream(!StructurallyEqual(g.Args[0], g.Args[1], env), env)
		case g.Functor == "is" && len(g.Args) == 2:
			return m.solveIs(g.Args[0], g.Args[1], env)
		case isComparisonFunctor(string(g.Functor)) && len(g.Args) == 2:
			return m.solveCompare(string(g.Functor), g.Args[0], g.Args[1], env)
		case g.Functor == "asserta" && len(g.Args) == 1:
			return m.solveAssert(g.Args[0], env, true)
		case g.Functor == "assertz" && len(g.Args) == 1:
			return m.solveAssert(g.Args[0], env, false)
		case g.Functor == "retract" && len(g.Args) == 1:
			return m.solveRetract(g.Args[0], env)
		case g.Functor == "call" && len(g.Args) == 1:
			return m.solveCall(ctx, g.Args[0], env)
		case g.Functor == "write" && len(g.Args) == 1:
			return m.solveWrite(g.Args[0], env)
		case g.Functor == "tab" && len(g.Args) == 1:
			return m.solveTab(g.Args[0], env)
		}
		return m.resolveUserGoal(ctx, goal, env, barrier)

	default:
		// A number, string, or unbound variable as a goal has no
		// clauses and is not a recognized control construct: it fails
		// silently, same as an undefined predicate.
		return emptyStream()
	}
}

// cutBarrier is installed at each clause invocation (and at each \+/1
// or ->/2 condition, which are opaque to cut). Executing '!' sets Fired
// on the nearest enclosing barrier; the clause-resolution loop checks
// Fired after a clause's body is exhausted to decide whether to try
// further clauses.
type cutBarrier struct {
	Fired bool
}

func (m *Machine) solveCut(env *Environment, barrier *cutBarrier) *Stream {
	if barrier != nil {
		barrier.Fired = true
	}
	return singletonStream(env)
}

func (m *Machine) solveNl(env *Environment) *Stream {
	m.writeOut("\n")
	return singletonStream(env)
}

func (m *Machine) solveWrite(arg Term, env *Environment) *Stream {
	m.writeOut(writeCanonical(env.Deref(arg)))
	return singletonStream(env)
}

func (m *Machine) solveTab(arg Term, env *Environment) *Stream {
	n, err := Eval(arg, env)
	if err != nil {
		m.logArithError("tab/1", err)
		return emptyStream()
	}
	for i := int64(0); i < n.Int; i++ {
		m.writeOut(" ")
	}
	return singletonStream(env)
}

// boolStream yields env once if ok, otherwise nothing — the shape of
// goals like ==/2 that never bind anything.
func boolStream(ok bool, env *Environment) *Stream {
	if ok {
		return singletonStream(env)
	}
	return emptyStream()
}

func isComparisonFunctor(f string) bool {
	switch f {
	case "=:=", "=\\=", "<", "=<", ">", ">=":
		return true
	}
	return false
}

// solveConj implements ','/2: for each success of A, solve B
// with that env; a cut from A aborts the loop over A's remaining
// alternatives (A and B share barrier, and the loop checks Fired after
// each pass through B). A cut from B
// propagates to the same barrier, past the conjunction.
func (m *Machine) solveConj(ctx context.Context, a, b Term, env *Environment, barrier *cutBarrier) *Stream {
	out := NewStream()
	go func() {
		defer out.Close()
		aStream := m.Solve(ctx, a, env, barrier)
		for {
			aEnv, ok := aStream.Next(ctx)
			if !ok {
				return
			}
			bStream := m.Solve(ctx, b, aEnv, barrier)
			if alive := drain(ctx, out, bStream); !alive {
				aStream.Close()
				return
			}
			if barrier != nil && barrier.Fired {
				aStream.Close()
				return
			}
		}
	}()
	return out
}

// solveDisjOrIfte dispatches ';'/2: a (Cond -> Then) as the left
// argument means if-then-else; otherwise plain
// disjunction.
func (m *Machine) solveDisjOrIfte(ctx context.Context, g Compound, env *Environment, barrier *cutBarrier) *Stream {
	left := env.Deref(g.Args[0])
	if ifte, ok := left.(Compound); ok && ifte.Functor == ifName && len(ifte.Args) == 2 {
		return m.solveIfThenElse(ctx, ifte.Args[0], ifte.Args[1], g.Args[1], env, barrier)
	}
	return m.solveDisj(ctx, g.Args[0], g.Args[1], env, barrier)
}

func (m *Machine) solveDisj(ctx context.Context, a, b Term, env *Environment, barrier *cutBarrier) *Stream {
	out := NewStream()
	go func() {
		defer out.Close()
		cp := env.Mark()
		aStream := m.Solve(ctx, a, env, barrier)
		if alive := drain(ctx, out, aStream); !alive {
			return
		}
		if barrier != nil && barrier.Fired {
			return
		}
		env.Undo(cp)
		bStream := m.Solve(ctx, b, env, barrier)
		drain(ctx, out, bStream)
	}()
	return out
}

// solveIfThenElse implements (Cond -> Then ; Else). Cond runs under
// its own opaque barrier: a cut inside Cond never escapes into
// Then/Else or beyond.
func (m *Machine) solveIfThenElse(ctx context.Context, cond, then, els Term, env *Environment, outerBarrier *cutBarrier) *Stream {
	out := NewStream()
	go func() {
		defer out.Close()
		cp := env.Mark()
		condBarrier := &cutBarrier{}
		condStream := m.Solve(ctx, cond, env, condBarrier)
		condEnv, ok := condStream.Next(ctx)
		if ok {
			condStream.Close()
			thenStream := m.Solve(ctx, then, condEnv, outerBarrier)
			drain(ctx, out, thenStream)
			return
		}
		env.Undo(cp)
		elsStream := m.Solve(ctx, els, env, outerBarrier)
		drain(ctx, out, elsStream)
	}()
	return out
}

// solveNegation implements \+/1: succeed iff G has zero solutions;
// any bindings G made are discarded regardless of outcome. \+ is an
// opaque cut barrier.
func (m *Machine) solveNegation(ctx context.Context, g Term, env *Environment) *Stream {
	cp := env.Mark()
	innerBarrier := &cutBarrier{}
	stream := m.Solve(ctx, g, env, innerBarrier)
	_, ok := stream.Next(ctx)
	stream.Close()
	env.Undo(cp)
	return boolStream(!ok, env)
}

// solveCall invokes its argument as a goal under a fresh, opaque cut
// barrier: a '!' reached while executing G commits only within G, the
// way call/1 confines cut in ISO Prolog.
func (m *Machine) solveCall(ctx context.Context, g Term, env *Environment) *Stream {
	return m.Solve(ctx, env.Deref(g), env, &cutBarrier{})
}

func (m *Machine) solveUnifyGoal(a, b Term, env *Environment) *Stream {
	cp := env.Mark()
	if Unify(a, b, env, m.OccursCheck) {
		return singletonStream(env)
	}
	env.Undo(cp)
	return emptyStream()
}

func (m *Machine) solveNotUnifiable(a, b Term, env *Environment) *Stream {
	cp := env.Mark()
	ok := Unify(a, b, env, m.OccursCheck)
	env.Undo(cp)
	return boolStream(!ok, env)
}

func (m *Machine) solveIs(lhs, expr Term, env *Environment) *Stream {
	val, err := Eval(expr, env)
	if err != nil {
		m.logArithError("is/2", err)
		return emptyStream()
	}
	cp := env.Mark()
	if Unify(lhs, val, env, m.OccursCheck) {
		return singletonStream(env)
	}
	env.Undo(cp)
	return emptyStream()
}

func (m *Machine) solveCompare(op string, lhs, rhs Term, env *Environment) *Stream {
	cmp, err := Compare(lhs, rhs, env)
	if err != nil {
		m.logArithError(op, err)
		return emptyStream()
	}
	var ok bool
	switch op {
	case "=:=":
		ok = cmp == 0
	case "=\\=":
		ok = cmp != 0
	case "<":
		ok = cmp < 0
	case "=<":
		ok = cmp <= 0
	case ">":
		ok = cmp > 0
	case ">=":
		ok = cmp >= 0
	}
	return boolStream(ok, env)
}

func (m *Machine) logArithError(goal string, err error) {
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"goal": goal, "error": err}).Debug("arithmetic goal failed")
	}
}

// resolveUserGoal tries each candidate clause for goal's predicate
// in definition order under a fresh renaming, unifying the goal against
// the renamed head and recursing into the body on success. A cut fired
// from within a clause's body stops further clauses for this goal.
func (m *Machine) resolveUserGoal(ctx context.Context, goal Term, env *Environment, _ *cutBarrier) *Stream {
	out := NewStream()
	go func() {
		defer out.Close()

		pi, ok := IndicatorOf(goal)
		if !ok {
			return
		}
		candidates := m.DB.Candidates(pi)
		cp := env.Mark()

		for _, clause := range candidates {
			env.Undo(cp)

			rm := newRenameMap()
			renamedHead := renameTerm(clause.Head, m.gen, rm)

			select {
			case <-ctx.Done():
				return
			default:
			}

			if !Unify(goal, renamedHead, env, m.OccursCheck) {
				continue
			}

			if clause.IsFact() {
				if !out.put(env) {
					return
				}
				continue
			}

			renamedBody := renameTerm(clause.Body, m.gen, rm)
			clauseBarrier := &cutBarrier{}
			bodyStream := m.Solve(ctx, renamedBody, env, clauseBarrier)
			if alive := drain(ctx, out, bodyStream); !alive {
				return
			}
			if clauseBarrier.Fired {
				break
			}
		}

		env.Undo(cp)
	}()
	return out
}

// newRenameMap starts a fresh, empty variable-renaming table for one
// clause instance; rename tables never leak between instances.
func newRenameMap() map[VarID]VarID { return make(map[VarID]VarID) }

// renameTerm produces a copy of t with every Var mapped through rm to a
// fresh id (minted via gen), consistently within this single call tree.
// Atoms, Numbers, and Strings are returned unchanged — they carry no
// variables and this package's terms are immutable, so there is
// nothing to copy.
func renameTerm(t Term, gen varGen, rm map[VarID]VarID) Term {
	switch x := t.(type) {
	case Var:
		fresh, ok := rm[x.ID]
		if !ok {
			fresh = gen()
			rm[x.ID] = fresh
		}
		return Var{ID: fresh, Name: x.Name}
	case Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = renameTerm(a, gen, rm)
		}
		return Compound{Functor: x.Functor, Args: args}
	default:
		return t
	}
}

// solveAssert implements asserta/1 and assertz/1.
// Variables in the asserted clause are dereferenced (resolved to their
// current binding) and copied into the stored clause; a variable still
// unbound keeps its id. Subsequent backtracking over the calling goal
// cannot retract that freeze: the stored term is built from values, not
// from env, and every later use of the clause renames its variables
// through renameTerm, which never looks into the calling environment.
func (m *Machine) solveAssert(clauseTerm Term, env *Environment, front bool) *Stream {
	resolved := freezeTerm(clauseTerm, env)
	clause := clauseFromTerm(resolved)
	if front {
		m.DB.AddFirst(clause)
	} else {
		m.DB.AddLast(clause)
	}
	return singletonStream(env)
}

// solveRetract implements retract/1. On backtracking it does not
// retry for further matches: success is single-shot.
func (m *Machine) solveRetract(template Term, env *Environment) *Stream {
	resolved := freezeTerm(template, env)
	removed := m.DB.RemoveFirstMatching(resolved, m.OccursCheck, m.gen)
	if !removed {
		if m.Logger != nil {
			m.Logger.WithField("goal", "retract/1").Debug("no matching clause to retract")
		}
		return emptyStream()
	}
	return singletonStream(env)
}

// freezeTerm walks t, replacing every variable with its current
// dereferenced value; a variable still unbound is returned as its root
// variable, with its id unchanged.
func freezeTerm(t Term, env *Environment) Term {
	d := env.Deref(t)
	switch x := d.(type) {
	case Var:
		return x
	case Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = freezeTerm(a, env)
		}
		return Compound{Functor: x.Functor, Args: args}
	default:
		return d
	}
}

// clauseFromTerm turns an asserted term into a Clause: ':-'/2 becomes
// head :- body, anything else becomes a fact.
func clauseFromTerm(t Term) Clause {
	if c, ok := t.(Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		return Clause{Head: c.Args[0], Body: c.Args[1]}
	}
	return Clause{Head: t, Body: Atom("true")}
}
