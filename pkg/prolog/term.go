// Package prolog implements a core subset of Prolog: Horn-clause logic
// programming with SLD-resolution, depth-first search, and chronological
// backtracking.
//
// A program is a set of facts and rules. A query is a goal term; solving
// it enumerates substitutions of the query's variables that make the goal
// a logical consequence of the program. The package exposes this through
// a small Runtime facade (see runtime.go): Consult loads clauses, Query
// returns a lazy sequence of solutions.
package prolog

import "fmt"

// Term is the sum type for every value the interpreter manipulates:
// atoms, numbers, strings, variables, and compound terms. Terms are
// immutable after construction; "substitution" happens virtually, by
// dereferencing through an *Environment, never by rewriting a node.
type Term interface {
	isTerm()
	String() string
}

// Atom is a symbolic constant with no internal structure. The empty
// list is the distinguished atom Atom("[]").
type Atom string

func (Atom) isTerm() {}

func (a Atom) String() string { return string(a) }

// Number is an integer or a floating point value. The two share one
// variant, but 1 and 1.0 are distinct terms: IsFloat is part of a
// Number's identity, not just its rendering.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (Number) isTerm() {}

// Int constructs an integer Number.
func Int(v int64) Number { return Number{Int: v} }

// Flt constructs a floating point Number.
func Flt(v float64) Number { return Number{IsFloat: true, Float: v} }

func (n Number) String() string {
	if n.IsFloat {
		return fmt.Sprintf("%g", n.Float)
	}
	return fmt.Sprintf("%d", n.Int)
}

// AsFloat returns the Number's value widened to float64, regardless of
// which variant it is.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// String is a double-quoted string literal from the parser. It is
// kept distinct from Atom because Prolog source distinguishes quoted
// string data from symbolic atoms.
type String string

func (String) isTerm() {}

func (s String) String() string { return string(s) }

// VarID is a globally unique variable identifier. Identifiers are
// handed out by a monotonic counter (see Runtime.nextVar) and are
// never reused once a variable's clause instance is discarded.
type VarID int64

// Var is a logical variable. Its surface Name is metadata for printing
// only; identity is carried entirely by ID.
type Var struct {
	ID   VarID
	Name string
}

func (Var) isTerm() {}

func (v Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("_G%d", v.ID)
}

// Compound is a functor applied to one or more arguments. A list cell
// is the compound Functor(".", [Head, Tail]); a proper list of n
// elements is n nested cells terminating in Atom("[]").
type Compound struct {
	Functor Atom
	Args    []Term
}

func (Compound) isTerm() {}

func (c Compound) String() string {
	return writeCanonical(c)
}

// NewCompound builds a compound term. Arity must be >= 1; this is the
// only validation construction performs.
func NewCompound(functor string, args ...Term) Compound {
	if len(args) == 0 {
		panic("prolog: compound arity must be >= 1")
	}
	return Compound{Functor: Atom(functor), Args: args}
}

// Indicator identifies a predicate or functor by name and arity.
type Indicator struct {
	Name  string
	Arity int
}

func (pi Indicator) String() string { return fmt.Sprintf("%s/%d", pi.Name, pi.Arity) }

// IndicatorOf returns the (functor, arity) pair identifying t, treating
// an Atom as arity 0. Numbers, strings, and variables have no
// indicator; ok is false for them.
func IndicatorOf(t Term) (pi Indicator, ok bool) {
	switch x := t.(type) {
	case Atom:
		return Indicator{Name: string(x), Arity: 0}, true
	case Compound:
		return Indicator{Name: string(x.Functor), Arity: len(x.Args)}, true
	default:
		return Indicator{}, false
	}
}

// List helpers. A list cell is Compound("."/2); the empty list is the
// atom "[]". These mirror the conventions the parser and the resolver
// both rely on.

const (
	nilAtom  = Atom("[]")
	consName = "."
)

// Nil is the empty list term.
var Nil Term = nilAtom

// Cons builds a single list cell head.tail.
func Cons(head, tail Term) Term {
	return Compound{Functor: consName, Args: []Term{head, tail}}
}

// NewList builds a proper list from elements, optionally terminated by
// tail instead of Nil (a "partial list" pattern, e.g. [H|T]).
func NewList(elems []Term, tail Term) Term {
	if tail == nil {
		tail = Nil
	}
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = Cons(elems[i], result)
	}
	return result
}

// IsCons reports whether t is a list cell, returning its head and tail.
func IsCons(t Term) (head, tail Term, ok bool) {
	c, ok := t.(Compound)
	if !ok || c.Functor != consName || len(c.Args) != 2 {
		return nil, nil, false
	}
	return c.Args[0], c.Args[1], true
}

// IsNil reports whether t is the empty list atom.
func IsNil(t Term) bool {
	a, ok := t.(Atom)
	return ok && a == nilAtom
}

// conjunction/disjunction functor names: a data convention,
// not separate Term variants.
const (
	conjName = ","
	disjName = ";"
	ifName   = "->"
	negName  = `\+`
)

// Conj builds the conjunction goal (a, b).
func Conj(a, b Term) Term { return Compound{Functor: conjName, Args: []Term{a, b}} }

// Disj builds the disjunction goal (a ; b).
func Disj(a, b Term) Term { return Compound{Functor: disjName, Args: []Term{a, b}} }
