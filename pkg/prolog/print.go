package prolog

import (
	"strconv"
	"strings"
)

// writeCanonical renders t the way write/1 does: lists in [a,b|T]
// notation, ','/2 as "(A, B)", and every other compound in plain
// functional notation Functor(Arg1, ..., ArgN). Atoms that need
// quoting to re-read as the same atom are left bare here — write/1 is
// for display, not for producing re-readable source.
func writeCanonical(t Term) string {
	var b strings.Builder
	writeTerm(&b, t)
	return b.String()
}

func writeTerm(b *strings.Builder, t Term) {
	switch x := t.(type) {
	case Atom:
		b.WriteString(string(x))
	case Number:
		b.WriteString(x.String())
	case String:
		b.WriteByte('"')
		b.WriteString(string(x))
		b.WriteByte('"')
	case Var:
		b.WriteString(x.String())
	case Compound:
		writeCompound(b, x)
	}
}

func writeCompound(b *strings.Builder, c Compound) {
	switch {
	case c.Functor == consName && len(c.Args) == 2:
		writeList(b, c)
		return
	case c.Functor == conjName && len(c.Args) == 2:
		b.WriteByte('(')
		writeTerm(b, c.Args[0])
		b.WriteString(", ")
		writeTerm(b, c.Args[1])
		b.WriteByte(')')
		return
	}

	b.WriteString(string(c.Functor))
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeTerm(b, arg)
	}
	b.WriteByte(')')
}

// writeList renders a (possibly partial) list cell in [a,b|T] notation,
// falling back to |Tail when the list does not end in [].
func writeList(b *strings.Builder, c Compound) {
	b.WriteByte('[')
	writeTerm(b, c.Args[0])
	rest := c.Args[1]
	for {
		if IsNil(rest) {
			break
		}
		if head, tail, ok := IsCons(rest); ok {
			b.WriteByte(',')
			writeTerm(b, head)
			rest = tail
			continue
		}
		b.WriteByte('|')
		writeTerm(b, rest)
		break
	}
	b.WriteByte(']')
}

// formatNumber renders n with strconv rather than Number.String's
// fmt verbs. Nothing in the package calls it.
func formatNumber(n Number) string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}
