package ir

import (
	"fmt"
	"strconv"
)

// Op is a numeric operator carried by partial and symbol numbers.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
)

var opSymbols = map[Op]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpGt: ">",
	OpAnd: "&", OpOr: "|", OpXor: "^", OpShl: "<<", OpShr: ">>",
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Valid reports whether o is a known operator.
func (o Op) Valid() bool {
	return o >= OpAdd && o <= OpShr
}

// ParseOp maps an operator symbol to its Op.
func ParseOp(sym string) (Op, bool) {
	for op, s := range opSymbols {
		if s == sym {
			return op, true
		}
	}
	return 0, false
}

// Numb is the 29-bit payload of a NUM port: a 5-bit type over a 24-bit value.
//
//	type 0        plain unsigned 24-bit number
//	type 1..14    partial operation: operator + left operand
//	type 17..30   operator symbol (16 + operator), value unused
type Numb uint32

const (
	numbValBits = 24

	// NumbMax is the largest plain number.
	NumbMax = 1<<numbValBits - 1

	symOffset = 16
)

// U24 builds a plain number, wrapping at 24 bits.
func U24(v uint32) Numb {
	return Numb(v & NumbMax)
}

// Partial builds an operation waiting for its right operand.
func Partial(op Op, left uint32) Numb {
	return Numb(uint32(op)<<numbValBits | left&NumbMax)
}

// Sym builds a bare operator symbol.
func Sym(op Op) Numb {
	return Numb(uint32(symOffset+op) << numbValBits)
}

func (n Numb) typ() uint32 {
	return uint32(n) >> numbValBits
}

// Value returns the 24-bit value.
func (n Numb) Value() uint32 {
	return uint32(n) & NumbMax
}

// IsU24 reports whether n is a plain number.
func (n Numb) IsU24() bool {
	return n.typ() == 0
}

// IsPartial reports whether n is an operation with a bound left operand.
func (n Numb) IsPartial() bool {
	return Op(n.typ()).Valid()
}

// IsSym reports whether n is a bare operator.
func (n Numb) IsSym() bool {
	t := n.typ()
	return t > symOffset && Op(t-symOffset).Valid()
}

// Op returns the operator of a partial or symbol number, or 0.
func (n Numb) Op() Op {
	switch {
	case n.IsPartial():
		return Op(n.typ())
	case n.IsSym():
		return Op(n.typ() - symOffset)
	}
	return 0
}

func (n Numb) String() string {
	switch {
	case n.IsPartial():
		return "[" + n.Op().String() + strconv.FormatUint(uint64(n.Value()), 10) + "]"
	case n.IsSym():
		return "[" + n.Op().String() + "]"
	}
	return strconv.FormatUint(uint64(n.Value()), 10)
}

// Operate combines the two numbers that met at an operator node. The result
// does not depend on which side arrived first:
//
//	symbol  + number -> partial (number becomes the left operand)
//	partial + number -> number
//	number  + number -> sum
//	anything else    -> 0
func Operate(a, b Numb) Numb {
	switch {
	case a.IsSym() && b.IsU24():
		return Partial(a.Op(), b.Value())
	case b.IsSym() && a.IsU24():
		return Partial(b.Op(), a.Value())
	case a.IsPartial() && b.IsU24():
		return U24(apply(a.Op(), a.Value(), b.Value()))
	case b.IsPartial() && a.IsU24():
		return U24(apply(b.Op(), b.Value(), a.Value()))
	case a.IsU24() && b.IsU24():
		return U24(a.Value() + b.Value())
	}
	return U24(0)
}

func apply(op Op, x, y uint32) uint32 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		if y == 0 {
			return 0
		}
		return x / y
	case OpMod:
		if y == 0 {
			return 0
		}
		return x % y
	case OpEq:
		return b2u(x == y)
	case OpNe:
		return b2u(x != y)
	case OpLt:
		return b2u(x < y)
	case OpGt:
		return b2u(x > y)
	case OpAnd:
		return x & y
	case OpOr:
		return x | y
	case OpXor:
		return x ^ y
	case OpShl:
		return x << (y & 31)
	case OpShr:
		return x >> (y & 31)
	}
	return 0
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
