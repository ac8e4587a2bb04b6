package compiler

import (
	"strings"

	"github.com/saikumarakula/HVM/internal/ir"
)

// Tree is a term of the surface language: a leaf or a binary node.
// The set of implementations is closed.
type Tree interface {
	isTree()
}

// Var is one end of a named wire.
type Var struct {
	Name string
}

// Ref names a global definition.
type Ref struct {
	Name string
}

// Era is the eraser `*`.
type Era struct{}

// Num is a numeric literal, operator symbol or partial operation.
type Num struct {
	Value ir.Numb
}

// Node is a binary node. Kind is one of ir.CON, ir.DUP, ir.OPR or ir.SWI.
type Node struct {
	Kind ir.Tag
	Fst  Tree
	Snd  Tree
}

func (Var) isTree()  {}
func (Ref) isTree()  {}
func (Era) isTree()  {}
func (Num) isTree()  {}
func (Node) isTree() {}

// Redex is an explicit active pair `& a ~ b`.
type Redex struct {
	A Tree
	B Tree
}

// Net is a root tree plus the redexes that hang off it.
type Net struct {
	Root Tree
	Rbag []Redex
}

// Definition is a named net `@name = net`.
type Definition struct {
	Name string
	Net  Net
	Pos  Pos
}

// Book is a parsed program: definitions in source order.
type Book struct {
	Defs []Definition
}

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

var nodeDelims = map[ir.Tag][2]string{
	ir.CON: {"(", ")"},
	ir.DUP: {"{", "}"},
	ir.OPR: {"$(", ")"},
	ir.SWI: {"?(", ")"},
}

// ShowTree renders a tree in surface syntax.
func ShowTree(t Tree) string {
	var sb strings.Builder
	writeTree(&sb, t)
	return sb.String()
}

func writeTree(sb *strings.Builder, t Tree) {
	switch t := t.(type) {
	case Var:
		sb.WriteString(t.Name)
	case Ref:
		sb.WriteString("@")
		sb.WriteString(t.Name)
	case Era:
		sb.WriteString("*")
	case Num:
		sb.WriteString(t.Value.String())
	case Node:
		d := nodeDelims[t.Kind]
		sb.WriteString(d[0])
		writeTree(sb, t.Fst)
		sb.WriteString(" ")
		writeTree(sb, t.Snd)
		sb.WriteString(d[1])
	default:
		sb.WriteString("?")
	}
}

// Show renders the net as `root & a ~ b & ...`.
func (n *Net) Show() string {
	var sb strings.Builder
	writeTree(&sb, n.Root)
	for _, r := range n.Rbag {
		sb.WriteString(" & ")
		writeTree(&sb, r.A)
		sb.WriteString(" ~ ")
		writeTree(&sb, r.B)
	}
	return sb.String()
}

// Show renders the whole book, one definition per line.
func (b *Book) Show() string {
	var sb strings.Builder
	for _, d := range b.Defs {
		sb.WriteString("@")
		sb.WriteString(d.Name)
		sb.WriteString(" = ")
		sb.WriteString(d.Net.Show())
		sb.WriteString("\n")
	}
	return sb.String()
}
