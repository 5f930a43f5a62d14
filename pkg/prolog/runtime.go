package prolog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Runtime is the library's user-facing entry point: it owns a clause
// database, an operator table, and the configuration a query runs
// under. One Runtime can serve many queries; asserta/assertz/retract
// mutate its database across queries, the way a REPL session would
// expect.
type Runtime struct {
	db      *ClauseDatabase
	ops     *OperatorTable
	logger  *logrus.Logger
	out     io.Writer
	occurs  bool
	maxSols int
	counter int64
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithOccursCheck enables or disables the occurs check during
// unification. On by default; pass false to opt out for the rare
// program that relies on building a cyclic term.
func WithOccursCheck(enabled bool) Option {
	return func(r *Runtime) { r.occurs = enabled }
}

// WithLogger overrides the default logger. A nil logger disables
// logging entirely.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithMaxSolutions caps how many solutions Query's iterator will
// produce before stopping early, regardless of how many exist. Zero
// (the default) means unbounded.
func WithMaxSolutions(n int) Option {
	return func(r *Runtime) { r.maxSols = n }
}

// WithWriter directs write/1, nl/0, and tab/1 output to w instead of
// os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(r *Runtime) { r.out = w }
}

// New constructs a Runtime with the prelude already consulted.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		db:     NewClauseDatabase(),
		ops:    DefaultOperatorTable(),
		logger: defaultLogger(),
		out:    os.Stdout,
		occurs: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Consult(preludeSource); err != nil {
		// The bundled prelude is fixed at compile time: a failure here
		// is a bug in this package, not a user error.
		panic(fmt.Sprintf("prolog: bundled prelude failed to load: %v", err))
	}
	return r
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// nextVar mints a fresh VarID from the runtime's single counter —
// shared with Machine.gen so that parse-time variables (query terms,
// clause templates) and resolution-time renamed variables are drawn
// from the same namespace and can never collide.
func (r *Runtime) nextVar() VarID { return VarID(atomic.AddInt64(&r.counter, 1)) }

func (r *Runtime) machine() *Machine {
	return &Machine{
		DB:          r.db,
		Ops:         r.ops,
		OccursCheck: r.occurs,
		Logger:      r.logger,
		Out:         r.out,
		counter:     &r.counter,
	}
}

// Consult parses source as a sequence of clauses terminated by '.' and
// adds each to the runtime's database in order, as assertz would.
func (r *Runtime) Consult(source string) error {
	clauses, err := ParseProgram(source, r.ops, r.nextVar)
	if err != nil {
		return err
	}
	for _, c := range clauses {
		r.db.AddLast(c)
	}
	return nil
}

// AssertRule parses source as a single clause (fact or rule, without a
// trailing query) and adds it to the end of its predicate's clause
// list, exactly as assertz/1 would from inside a running program.
func (r *Runtime) AssertRule(source string) error {
	clause, err := ParseClause(source, r.ops, r.nextVar)
	if err != nil {
		return err
	}
	r.db.AddLast(clause)
	return nil
}

// Solutions is a lazy iterator over a query's success environments,
// each exposed as a map from every named variable of the query to its
// fully dereferenced value (a variable the query leaves unbound is
// reported as an unbound variable term).
type Solutions struct {
	stream *Stream
	vars   map[string]VarID
	cancel context.CancelFunc
	count  int
	max    int
}

// Next advances to the next solution, returning false once the query
// is exhausted or its solution cap (WithMaxSolutions) is reached.
func (s *Solutions) Next(ctx context.Context) (map[string]Term, bool) {
	if s.max > 0 && s.count >= s.max {
		return nil, false
	}
	env, ok := s.stream.Next(ctx)
	if !ok {
		return nil, false
	}
	s.count++
	out := make(map[string]Term, len(s.vars))
	for name, id := range s.vars {
		out[name] = resolveDeep(Var{ID: id, Name: name}, env)
	}
	return out, true
}

// Close abandons the query, releasing its backing goroutine(s).
// Safe to call more than once.
func (s *Solutions) Close() {
	s.stream.Close()
	if s.cancel != nil {
		s.cancel()
	}
}

// resolveDeep fully dereferences t and every subterm reachable from
// it, producing a value with no remaining reference into env — safe
// to hand to a caller after the environment has moved on.
func resolveDeep(t Term, env *Environment) Term {
	d := env.Deref(t)
	c, ok := d.(Compound)
	if !ok {
		return d
	}
	args := make([]Term, len(c.Args))
	for i, a := range c.Args {
		args[i] = resolveDeep(a, env)
	}
	return Compound{Functor: c.Functor, Args: args}
}

// Query parses source as a single goal and returns a lazy iterator
// over its solutions. The returned Solutions must be Closed once the
// caller is done with it, even after Next returns false.
func (r *Runtime) Query(source string) (*Solutions, error) {
	goal, varNames, err := ParseQuery(source, r.ops, r.nextVar)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := r.machine()
	env := NewEnvironment()
	stream := m.Solve(ctx, goal, env, nil)
	return &Solutions{stream: stream, vars: varNames, cancel: cancel, max: r.maxSols}, nil
}
