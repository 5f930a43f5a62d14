package prolog

// OperatorKind classifies an operator. Every table entry records one;
// the resolver dispatches built-in goals by functor name and does not
// read it.
type OperatorKind int

const (
	KindArithmetic OperatorKind = iota
	KindComparison
	KindUnification
	KindIs
	KindLogical
	KindControl
)

// Associativity follows the standard ISO Prolog op/3 vocabulary.
type Associativity int

const (
	AssocXFX Associativity = iota
	AssocXFY
	AssocYFX
	AssocFY
	AssocFX
	AssocXF
	AssocYF
)

// OperatorInfo describes one entry of the operator table: precedence
// and associativity for the parser, kind/arity as classification data.
type OperatorInfo struct {
	Symbol      string
	Precedence  int
	Assoc       Associativity
	Kind        OperatorKind
	Arity       int
}

// OperatorTable is a static map from symbol to OperatorInfo, consumed
// (not owned) by the parser. The Runtime also hands it to the resolver
// (Machine.Ops), which does not consult it.
type OperatorTable struct {
	infix   map[string]OperatorInfo
	prefix  map[string]OperatorInfo
	postfix map[string]OperatorInfo
}

// DefaultOperatorTable returns the operator table used by every fresh
// Runtime, with the standard ISO precedence and associativity values
// for control, comparison, and arithmetic operators.
func DefaultOperatorTable() *OperatorTable {
	t := &OperatorTable{
		infix:   make(map[string]OperatorInfo),
		prefix:  make(map[string]OperatorInfo),
		postfix: make(map[string]OperatorInfo),
	}

	add := func(sym string, prec int, assoc Associativity, kind OperatorKind, arity int) {
		info := OperatorInfo{Symbol: sym, Precedence: prec, Assoc: assoc, Kind: kind, Arity: arity}
		switch {
		case arity == 2:
			t.infix[sym] = info
		case assoc == AssocFY || assoc == AssocFX:
			t.prefix[sym] = info
		default:
			t.postfix[sym] = info
		}
	}

	add(":-", 1200, AssocXFX, KindControl, 2)
	add(":-", 1200, AssocFX, KindControl, 1)
	add(";", 1100, AssocXFY, KindLogical, 2)
	add("->", 1050, AssocXFY, KindLogical, 2)
	add(",", 1000, AssocXFY, KindLogical, 2)
	add(`\+`, 900, AssocFY, KindLogical, 1)

	add("=", 700, AssocXFX, KindUnification, 2)
	add(`\=`, 700, AssocXFX, KindUnification, 2)
	add("==", 700, AssocXFX, KindLogical, 2)
	add(`\==`, 700, AssocXFX, KindLogical, 2)
	add("is", 700, AssocXFX, KindIs, 2)
	add("=:=", 700, AssocXFX, KindComparison, 2)
	add("=\\=", 700, AssocXFX, KindComparison, 2)
	add("<", 700, AssocXFX, KindComparison, 2)
	add("=<", 700, AssocXFX, KindComparison, 2)
	add(">", 700, AssocXFX, KindComparison, 2)
	add(">=", 700, AssocXFX, KindComparison, 2)

	add("+", 500, AssocYFX, KindArithmetic, 2)
	add("-", 500, AssocYFX, KindArithmetic, 2)
	add("*", 400, AssocYFX, KindArithmetic, 2)
	add("/", 400, AssocYFX, KindArithmetic, 2)
	add("//", 400, AssocYFX, KindArithmetic, 2)
	add("mod", 400, AssocYFX, KindArithmetic, 2)
	add("**", 200, AssocXFY, KindArithmetic, 2)
	add("-", 200, AssocFY, KindArithmetic, 1)

	return t
}

// Infix looks up a binary operator by symbol.
func (t *OperatorTable) Infix(sym string) (OperatorInfo, bool) {
	info, ok := t.infix[sym]
	return info, ok
}

// Prefix looks up a unary prefix operator by symbol.
func (t *OperatorTable) Prefix(sym string) (OperatorInfo, bool) {
	info, ok := t.prefix[sym]
	return info, ok
}

// IsOperator reports whether sym is registered in any position.
func (t *OperatorTable) IsOperator(sym string) bool {
	_, i := t.infix[sym]
	_, p := t.prefix[sym]
	_, s := t.postfix[sym]
	return i || p || s
}

// MaxPrecedence is the ISO-standard ceiling used by the parser when
// parsing a top-level term.
const MaxPrecedence = 1200
