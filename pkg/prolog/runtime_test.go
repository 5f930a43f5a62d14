package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectNames(t *testing.T, sols *Solutions, varName string) []string {
	t.Helper()
	var got []string
	ctx := context.Background()
	for {
		bindings, ok := sols.Next(ctx)
		if !ok {
			break
		}
		got = append(got, string(bindings[varName].(Atom)))
	}
	return got
}

func TestQuerySimpleFact(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`parent(tom, bob). parent(tom, liz).`))

	sols, err := rt.Query(`parent(tom, Who)`)
	require.NoError(t, err)
	defer sols.Close()

	names := collectNames(t, sols, "Who")
	assert.Equal(t, []string{"bob", "liz"}, names)
}

func TestQueryRecursiveAncestor(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`
		parent(tom, bob).
		parent(bob, ann).
		ancestor(X, Y) :- parent(X, Y).
		ancestor(X, Y) :- parent(X, Z), ancestor(Z, Y).
	`))

	sols, err := rt.Query(`ancestor(tom, Who)`)
	require.NoError(t, err)
	defer sols.Close()

	names := collectNames(t, sols, "Who")
	assert.Equal(t, []string{"bob", "ann"}, names)
}

func TestQueryArithmeticAndComparison(t *testing.T) {
	rt := New()
	sols, err := rt.Query(`X is 2 + 3 * 4, X > 10`)
	require.NoError(t, err)
	defer sols.Close()

	bindings, ok := sols.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, Int(14), bindings["X"])

	_, ok = sols.Next(context.Background())
	assert.False(t, ok)
}

func TestQueryDivisionByZeroYieldsNoSolutions(t *testing.T) {
	rt := New()
	sols, err := rt.Query(`X is 1 / 0`)
	require.NoError(t, err)
	defer sols.Close()

	_, ok := sols.Next(context.Background())
	assert.False(t, ok)
}

func TestQueryListUnificationViaAppend(t *testing.T) {
	rt := New()
	sols, err := rt.Query(`append(X, Y, [1, 2])`)
	require.NoError(t, err)
	defer sols.Close()

	var pairs [][2]Term
	for {
		bindings, ok := sols.Next(context.Background())
		if !ok {
			break
		}
		pairs = append(pairs, [2]Term{bindings["X"], bindings["Y"]})
	}
	assert.Len(t, pairs, 3)
}

func TestQueryCutCommitsToFirstClause(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`
		choose(a) :- !.
		choose(b).
		choose(c).
	`))

	sols, err := rt.Query(`choose(X)`)
	require.NoError(t, err)
	defer sols.Close()

	names := collectNames(t, sols, "X")
	assert.Equal(t, []string{"a"}, names)
}

func TestQueryIfThenElseCommitsToFirstCondSolution(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`
		color(red).
		color(green).
		color(blue).
	`))

	sols, err := rt.Query(`(color(X) -> Y = matched ; Y = unmatched)`)
	require.NoError(t, err)
	defer sols.Close()

	bindings, ok := sols.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, Atom("red"), bindings["X"])
	assert.Equal(t, Atom("matched"), bindings["Y"])

	// Cond succeeded once; -> commits and never backtracks into color/1
	// for its remaining solutions (green, blue).
	_, ok = sols.Next(context.Background())
	assert.False(t, ok)
}

func TestQueryIfThenElseFallsBackToElseWhenCondFails(t *testing.T) {
	rt := New()
	sols, err := rt.Query(`(fail -> Y = matched ; Y = unmatched)`)
	require.NoError(t, err)
	defer sols.Close()

	bindings, ok := sols.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, Atom("unmatched"), bindings["Y"])

	_, ok = sols.Next(context.Background())
	assert.False(t, ok)
}

func TestQueryCallInvokesGoalTerm(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`likes(mary, wine).`))

	sols, err := rt.Query(`G = likes(mary, wine), call(G)`)
	require.NoError(t, err)
	defer sols.Close()

	_, ok := sols.Next(context.Background())
	assert.True(t, ok)
}

func TestQueryCutInsideCallIsLocalToCall(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`
		choose(a).
		choose(b).
		choose(c).
	`))

	// The cut inside call/1 must not escape and commit the outer choose/1.
	sols, err := rt.Query(`choose(X), (call((!, fail)) ; true)`)
	require.NoError(t, err)
	defer sols.Close()

	names := collectNames(t, sols, "X")
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestQueryNegationAsFailure(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`bird(tweety). fly(X) :- bird(X), \+ penguin(X). penguin(opus).`))

	sols, err := rt.Query(`fly(tweety)`)
	require.NoError(t, err)
	defer sols.Close()
	_, ok := sols.Next(context.Background())
	assert.True(t, ok)

	require.NoError(t, rt.AssertRule(`bird(opus).`))
	sols2, err := rt.Query(`fly(opus)`)
	require.NoError(t, err)
	defer sols2.Close()
	_, ok = sols2.Next(context.Background())
	assert.False(t, ok)
}

func TestAssertAndRetractPersistAcrossQueries(t *testing.T) {
	rt := New()
	require.NoError(t, rt.Consult(`color(red).`))

	sols, err := rt.Query(`assertz(color(blue))`)
	require.NoError(t, err)
	_, ok := sols.Next(context.Background())
	require.True(t, ok)
	sols.Close()

	sols2, err := rt.Query(`color(X)`)
	require.NoError(t, err)
	names := collectNames(t, sols2, "X")
	assert.Equal(t, []string{"red", "blue"}, names)
	sols2.Close()

	sols3, err := rt.Query(`retract(color(red))`)
	require.NoError(t, err)
	_, ok = sols3.Next(context.Background())
	require.True(t, ok)
	sols3.Close()

	sols4, err := rt.Query(`color(X)`)
	require.NoError(t, err)
	names = collectNames(t, sols4, "X")
	assert.Equal(t, []string{"blue"}, names)
	sols4.Close()
}

func TestQueryMaxSolutionsCapsEnumeration(t *testing.T) {
	rt := New(WithMaxSolutions(1))
	require.NoError(t, rt.Consult(`p(1). p(2). p(3).`))

	sols, err := rt.Query(`p(X)`)
	require.NoError(t, err)
	defer sols.Close()

	var count int
	for {
		_, ok := sols.Next(context.Background())
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 1, count)
}
