package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPreservesIntWhenBothOperandsInt(t *testing.T) {
	env := NewEnvironment()
	v, err := Eval(NewCompound("+", Int(2), Int(3)), env)
	require.NoError(t, err)
	assert.False(t, v.IsFloat)
	assert.Equal(t, int64(5), v.Int)
}

func TestEvalPromotesToFloat(t *testing.T) {
	env := NewEnvironment()
	v, err := Eval(NewCompound("+", Int(2), Flt(0.5)), env)
	require.NoError(t, err)
	assert.True(t, v.IsFloat)
	assert.Equal(t, 2.5, v.Float)
}

func TestEvalFloorDivision(t *testing.T) {
	env := NewEnvironment()
	v, err := Eval(NewCompound("//", Int(-7), Int(2)), env)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), v.Int)
}

func TestEvalFloorModulo(t *testing.T) {
	env := NewEnvironment()
	v, err := Eval(NewCompound("mod", Int(-7), Int(2)), env)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)
}

func TestEvalDivisionByZero(t *testing.T) {
	env := NewEnvironment()
	_, err := Eval(NewCompound("/", Int(1), Int(0)), env)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvalUnboundVariableIsInstantiationError(t *testing.T) {
	env := NewEnvironment()
	_, err := Eval(Var{ID: 1}, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstantiation)
}

func TestEvalUnaryMinus(t *testing.T) {
	env := NewEnvironment()
	v, err := Eval(NewCompound("-", Int(5)), env)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), v.Int)
}

func TestCompareOrdering(t *testing.T) {
	env := NewEnvironment()
	cmp, err := Compare(Int(1), Int(2), env)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(Flt(2), Int(2), env)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestEvalGroundArithmeticIsIdempotent(t *testing.T) {
	env := NewEnvironment()
	expr := NewCompound("*", NewCompound("+", Int(1), Int(2)), Int(4))
	v1, err := Eval(expr, env)
	require.NoError(t, err)
	v2, err := Eval(expr, env)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}
