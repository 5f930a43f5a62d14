package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkUndoRoundTrip(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1}
	cp := env.Mark()
	env.Bind(x.ID, Atom("bound"))
	require.Equal(t, Atom("bound"), env.Deref(x))

	env.Undo(cp)
	assert.Equal(t, x, env.Deref(x))
	assert.Equal(t, 0, env.TrailLen())
}

func TestNestedMarkUndo(t *testing.T) {
	env := NewEnvironment()
	x, y := Var{ID: 1}, Var{ID: 2}

	cp1 := env.Mark()
	env.Bind(x.ID, Atom("x-value"))

	cp2 := env.Mark()
	env.Bind(y.ID, Atom("y-value"))

	env.Undo(cp2)
	assert.Equal(t, Atom("x-value"), env.Deref(x))
	assert.Equal(t, y, env.Deref(y))

	env.Undo(cp1)
	assert.Equal(t, x, env.Deref(x))
}

func TestFindPathCompression(t *testing.T) {
	env := NewEnvironment()
	a, b, c := Var{ID: 1}, Var{ID: 2}, Var{ID: 3}
	env.Bind(a.ID, b)
	env.Bind(b.ID, c)
	assert.Equal(t, c, env.Find(a.ID))
}
