package prolog

import "fmt"

// parser is an operator-precedence parser: it consumes the token
// stream produced by lexer and builds Term values, consuming the
// Runtime's OperatorTable so that "is", the
// comparisons, and the control constructs parse with their ISO-style
// precedence and associativity without a separate grammar rule per
// operator.
type parser struct {
	toks []token
	pos  int
	ops  *OperatorTable
	gen  varGen
	vars map[string]VarID
}

func newParser(toks []token, ops *OperatorTable, gen varGen) *parser {
	return &parser{toks: toks, ops: ops, gen: gen, vars: make(map[string]VarID)}
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func perr(t token, format string, args ...interface{}) error {
	return &ParseError{Line: t.line, Col: t.col, Msg: fmt.Sprintf(format, args...)}
}

// tokenizeAll runs the lexer to completion, including the trailing
// tokEOF, so downstream parsing never needs to special-case end of
// input.
func tokenizeAll(source string) []token {
	l := newLexer(source)
	var toks []token
	for {
		t := l.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks
		}
	}
}

// ParseProgram parses source as a sequence of clauses, each terminated
// by '.', and returns them in textual order.
func ParseProgram(source string, ops *OperatorTable, gen varGen) ([]Clause, error) {
	toks := tokenizeAll(source)
	var clauses []Clause
	start := 0
	for i, t := range toks {
		if t.kind == tokEnd {
			segment := toks[start:i]
			if len(segment) == 0 {
				start = i + 1
				continue
			}
			segment = append(append([]token{}, segment...), token{kind: tokEOF})
			clause, err := parseClauseTokens(segment, ops, gen)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
			start = i + 1
		}
	}
	return clauses, nil
}

// ParseClause parses source as exactly one clause (with or without a
// trailing '.').
func ParseClause(source string, ops *OperatorTable, gen varGen) (Clause, error) {
	toks := tokenizeAll(source)
	toks = trimTrailingEnd(toks)
	return parseClauseTokens(toks, ops, gen)
}

func parseClauseTokens(toks []token, ops *OperatorTable, gen varGen) (Clause, error) {
	p := newParser(toks, ops, gen)
	t, err := p.parseExpr(MaxPrecedence)
	if err != nil {
		return Clause{}, err
	}
	if p.peek().kind != tokEOF {
		return Clause{}, perr(p.peek(), "unexpected token %q after clause", p.peek().text)
	}
	return clauseFromParsedTerm(t), nil
}

func clauseFromParsedTerm(t Term) Clause {
	if c, ok := t.(Compound); ok && c.Functor == ":-" {
		switch len(c.Args) {
		case 2:
			return Clause{Head: c.Args[0], Body: c.Args[1]}
		case 1:
			// A bare directive: not a queryable clause, kept so that
			// Consult does not fail on its presence.
			return Clause{Head: Atom("$directive"), Body: c.Args[0]}
		}
	}
	return Clause{Head: t, Body: Atom("true")}
}

// ParseQuery parses source as a single goal term and returns it
// alongside a map from each named variable appearing in it to the
// VarID assigned, so a caller can report bindings by name.
func ParseQuery(source string, ops *OperatorTable, gen varGen) (Term, map[string]VarID, error) {
	toks := tokenizeAll(source)
	toks = trimTrailingEnd(toks)
	p := newParser(toks, ops, gen)
	t, err := p.parseExpr(MaxPrecedence)
	if err != nil {
		return nil, nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, nil, perr(p.peek(), "unexpected token %q after query", p.peek().text)
	}
	return t, p.vars, nil
}

func trimTrailingEnd(toks []token) []token {
	for i, t := range toks {
		if t.kind == tokEnd {
			rest := append(append([]token{}, toks[:i]...), token{kind: tokEOF})
			return rest
		}
	}
	return toks
}

// parseExpr parses a term of priority at most maxPrec, using operator
// precedence climbing: parsePrimary (or a prefix-operator application)
// produces a left operand, then infix/postfix operators are folded in
// so long as their priority fits under maxPrec.
func (p *parser) parseExpr(maxPrec int) (Term, error) {
	left, leftPrec, err := p.parseLeft(maxPrec)
	if err != nil {
		return nil, err
	}
	return p.parseInfix(left, leftPrec, maxPrec)
}

func (p *parser) parseLeft(maxPrec int) (Term, int, error) {
	t := p.peek()

	if t.kind == tokAtom {
		if info, ok := p.ops.Prefix(t.text); ok && info.Precedence <= maxPrec && p.canStartTerm(p.pos+1) {
			// "-" directly before a numeric literal reads as a negative
			// number literal, not a unary-minus compound.
			if t.text == "-" {
				if nxt := p.toks[p.pos+1]; nxt.kind == tokInt || nxt.kind == tokFloat {
					p.advance()
					n, err := p.parsePrimary()
					if err != nil {
						return nil, 0, err
					}
					num := n.(Number)
					if num.IsFloat {
						return Flt(-num.Float), 0, nil
					}
					return Int(-num.Int), 0, nil
				}
			}
			p.advance()
			argMax := info.Precedence
			if info.Assoc == AssocFX {
				argMax--
			}
			arg, err := p.parseExpr(argMax)
			if err != nil {
				return nil, 0, err
			}
			return Compound{Functor: Atom(t.text), Args: []Term{arg}}, info.Precedence, nil
		}
	}

	primary, err := p.parsePrimary()
	if err != nil {
		return nil, 0, err
	}
	return primary, 0, nil
}

// canStartTerm reports whether the token at index i could begin a
// term, used to decide whether an atom that is also a prefix operator
// should be read as an operator application or as a plain atom (e.g.
// the bare atom "-" passed as an argument).
func (p *parser) canStartTerm(i int) bool {
	if i >= len(p.toks) {
		return false
	}
	t := p.toks[i]
	switch t.kind {
	case tokEOF, tokEnd:
		return false
	case tokPunct:
		return t.text == "(" || t.text == "[" || t.text == "{"
	case tokAtom:
		if _, isInfix := p.ops.Infix(t.text); isInfix {
			if _, isPrefix := p.ops.Prefix(t.text); !isPrefix {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (p *parser) parseInfix(left Term, leftPrec, maxPrec int) (Term, error) {
	for {
		t := p.peek()
		name := t.text
		if t.kind == tokPunct && t.text == "," {
			name = ","
		} else if t.kind != tokAtom {
			return left, nil
		}

		info, ok := p.ops.Infix(name)
		if !ok || info.Precedence > maxPrec {
			return left, nil
		}

		leftMax := info.Precedence
		rightMax := info.Precedence
		switch info.Assoc {
		case AssocXFX:
			leftMax--
			rightMax--
		case AssocXFY:
			leftMax--
		case AssocYFX:
			rightMax--
		}
		if leftPrec > leftMax {
			return left, nil
		}

		p.advance()
		right, err := p.parseExpr(rightMax)
		if err != nil {
			return nil, err
		}
		left = Compound{Functor: Atom(name), Args: []Term{left, right}}
		leftPrec = info.Precedence
	}
}

// parsePrimary parses an operator-free term: atom, variable, number,
// string, compound application, list, or parenthesized term.
func (p *parser) parsePrimary() (Term, error) {
	t := p.advance()

	switch t.kind {
	case tokInt:
		return parseIntLiteral(t)
	case tokFloat:
		return parseFloatLiteral(t)
	case tokString:
		return String(t.text), nil
	case tokVar:
		return p.varTerm(t.text), nil

	case tokAtom:
		if p.peek().kind == tokPunct && p.peek().text == "(" {
			return p.parseCompoundArgs(t.text)
		}
		return Atom(t.text), nil

	case tokPunct:
		switch t.text {
		case "(":
			inner, err := p.parseExpr(MaxPrecedence)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			return p.parseList()
		}
		return nil, perr(t, "unexpected token %q", t.text)

	default:
		return nil, perr(t, "unexpected end of input")
	}
}

func (p *parser) varTerm(name string) Term {
	if name == "_" {
		return Var{ID: p.gen(), Name: "_"}
	}
	if id, ok := p.vars[name]; ok {
		return Var{ID: id, Name: name}
	}
	id := p.gen()
	p.vars[name] = id
	return Var{ID: id, Name: name}
}

func (p *parser) parseCompoundArgs(functor string) (Term, error) {
	p.advance() // consume '('
	var args []Term
	for {
		// Arguments parse at priority 999 so a bare ',' is always the
		// argument separator, never the conjunction operator.
		arg, err := p.parseExpr(999)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind == tokPunct && p.peek().text == "," {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return Compound{Functor: Atom(functor), Args: args}, nil
}

func (p *parser) parseList() (Term, error) {
	if p.peek().kind == tokPunct && p.peek().text == "]" {
		p.advance()
		return Nil, nil
	}
	var elems []Term
	for {
		e, err := p.parseExpr(999)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek().kind == tokPunct && p.peek().text == "," {
			p.advance()
			continue
		}
		break
	}
	var tail Term = Nil
	if p.peek().kind == tokPunct && p.peek().text == "|" {
		p.advance()
		t, err := p.parseExpr(999)
		if err != nil {
			return nil, err
		}
		tail = t
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return NewList(elems, tail), nil
}

func (p *parser) expectPunct(s string) error {
	t := p.advance()
	if t.kind != tokPunct || t.text != s {
		return perr(t, "expected %q, found %q", s, t.text)
	}
	return nil
}

func parseIntLiteral(t token) (Term, error) {
	var v int64
	for _, r := range t.text {
		v = v*10 + int64(r-'0')
	}
	return Int(v), nil
}

func parseFloatLiteral(t token) (Term, error) {
	var whole, frac, fracDiv float64 = 0, 0, 1
	i := 0
	for ; i < len(t.text) && t.text[i] != '.' && t.text[i] != 'e' && t.text[i] != 'E'; i++ {
		whole = whole*10 + float64(t.text[i]-'0')
	}
	if i < len(t.text) && t.text[i] == '.' {
		i++
		for ; i < len(t.text) && t.text[i] >= '0' && t.text[i] <= '9'; i++ {
			frac = frac*10 + float64(t.text[i]-'0')
			fracDiv *= 10
		}
	}
	mantissa := whole + frac/fracDiv
	if i < len(t.text) && (t.text[i] == 'e' || t.text[i] == 'E') {
		i++
		sign := 1.0
		if i < len(t.text) && (t.text[i] == '+' || t.text[i] == '-') {
			if t.text[i] == '-' {
				sign = -1
			}
			i++
		}
		var exp float64
		for ; i < len(t.text) && t.text[i] >= '0' && t.text[i] <= '9'; i++ {
			exp = exp*10 + float64(t.text[i]-'0')
		}
		mantissa *= pow(10, sign*exp)
	}
	return Flt(mantissa), nil
}
