// Package ir provides the encoded graph types shared by every other HVM package.
//
// This package contains the atomic units of the interaction-net runtime and the
// compiled program format only. All other internal packages import ir; ir imports
// nothing internal. This keeps the encoding the foundational layer with no
// circular dependencies.
//
// ENCODING:
//
// Port: a 32-bit tagged reference. The low 3 bits hold the Tag, the high 29
// bits hold a value whose meaning depends on the tag:
//
//	VAR  wire endpoint, value = variable address
//	REF  global reference, value = definition index in the Book
//	ERA  eraser, value unused
//	NUM  number, value = Numb payload
//	CON  constructor node, value = node address
//	DUP  duplicator node, value = node address
//	OPR  numeric operator node, value = node address
//	SWI  switch node, value = node address
//
// Pair: two Ports packed in 64 bits. A Pair is either a node (its two
// auxiliary ports) or a redex (two principal ports facing each other).
//
// RULES:
//
// The interaction rule for a redex is looked up in a single 8x8 table keyed by
// the two tags (see RuleOf). Both the interpreter in internal/engine and the
// code generator in internal/codegen read this table, so compiled reducers
// cannot drift from interpreted ones.
//
// Key design constraints:
//   - Tag numbering is derived from the rule table: the lower side of every
//     asymmetric rule carries the smaller tag, so orientation is a compare.
//   - Arena capacities never exceed MaxAddr, keeping NONE out of address space.
//   - Book is immutable after Build; engine workers share it without locks.
package ir
