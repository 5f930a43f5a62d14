package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(functor string, args ...Term) Clause {
	if len(args) == 0 {
		return Clause{Head: Atom(functor), Body: Atom("true")}
	}
	return Clause{Head: NewCompound(functor, args...), Body: Atom("true")}
}

func TestClauseOrderIsPreservedAndDeterministic(t *testing.T) {
	db := NewClauseDatabase()
	db.AddLast(fact("p", Int(1)))
	db.AddLast(fact("p", Int(2)))
	db.AddLast(fact("p", Int(3)))

	for i := 0; i < 3; i++ {
		cs := db.Candidates(Indicator{Name: "p", Arity: 1})
		require.Len(t, cs, 3)
		assert.Equal(t, Int(1), cs[0].Head.(Compound).Args[0])
		assert.Equal(t, Int(2), cs[1].Head.(Compound).Args[0])
		assert.Equal(t, Int(3), cs[2].Head.(Compound).Args[0])
	}
}

func TestAddFirstPrepends(t *testing.T) {
	db := NewClauseDatabase()
	db.AddLast(fact("p", Int(2)))
	db.AddFirst(fact("p", Int(1)))

	cs := db.Candidates(Indicator{Name: "p", Arity: 1})
	require.Len(t, cs, 2)
	assert.Equal(t, Int(1), cs[0].Head.(Compound).Args[0])
}

func TestRemoveFirstMatchingIsSingleShot(t *testing.T) {
	db := NewClauseDatabase()
	db.AddLast(fact("p", Int(1)))
	db.AddLast(fact("p", Int(1)))

	var counter int64
	gen := func() VarID { counter++; return VarID(counter) }

	removed := db.RemoveFirstMatching(NewCompound("p", Int(1)), false, gen)
	require.True(t, removed)
	assert.Len(t, db.Candidates(Indicator{Name: "p", Arity: 1}), 1)

	removed = db.RemoveFirstMatching(NewCompound("p", Int(1)), false, gen)
	require.True(t, removed)
	assert.Empty(t, db.Candidates(Indicator{Name: "p", Arity: 1}))

	removed = db.RemoveFirstMatching(NewCompound("p", Int(1)), false, gen)
	assert.False(t, removed)
}
