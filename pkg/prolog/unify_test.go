package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyAtoms(t *testing.T) {
	env := NewEnvironment()
	assert.True(t, Unify(Atom("a"), Atom("a"), env, false))
	assert.False(t, Unify(Atom("a"), Atom("b"), env, false))
}

func TestUnifyVariableBindsAndDeref(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	require.True(t, Unify(x, Atom("hello"), env, false))
	assert.Equal(t, Atom("hello"), env.Deref(x))
}

func TestUnifyIsCommutative(t *testing.T) {
	env1 := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	ok1 := Unify(x, Atom("a"), env1, false)

	env2 := NewEnvironment()
	ok2 := Unify(Atom("a"), x, env2, false)

	require.Equal(t, ok1, ok2)
	assert.Equal(t, env1.Deref(x), env2.Deref(x))
}

func TestUnifyCompoundRecursion(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	t1 := NewCompound("f", x, Int(2))
	t2 := NewCompound("f", Int(1), Int(2))
	require.True(t, Unify(t1, t2, env, false))
	assert.Equal(t, Int(1), env.Deref(x))
}

func TestUnifyArityMismatchFails(t *testing.T) {
	env := NewEnvironment()
	assert.False(t, Unify(NewCompound("f", Int(1)), NewCompound("f", Int(1), Int(2)), env, false))
}

func TestOccursCheckRejectsSelfReference(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	cyclic := NewCompound("f", x)
	assert.False(t, Unify(x, cyclic, env, true))
}

func TestOccursCheckOffAllowsSelfReference(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	cyclic := NewCompound("f", x)
	assert.True(t, Unify(x, cyclic, env, false))
}

func TestUnifyDoesNotUndoOnFailure(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	cp := env.Mark()
	ok := Unify(NewCompound("p", x, Atom("a")), NewCompound("p", Atom("b"), Atom("c")), env, false)
	require.False(t, ok)
	// x was bound to "b" before the second argument pair failed; Unify
	// itself never rolls that back.
	assert.Equal(t, Atom("b"), env.Deref(x))
	env.Undo(cp)
	assert.Equal(t, x, env.Deref(x))
}

func TestStructurallyEqual(t *testing.T) {
	env := NewEnvironment()
	x := Var{ID: 1, Name: "X"}
	y := Var{ID: 2, Name: "Y"}
	assert.True(t, StructurallyEqual(Atom("a"), Atom("a"), env))
	assert.False(t, StructurallyEqual(x, y, env))
	assert.True(t, StructurallyEqual(x, x, env))
}
