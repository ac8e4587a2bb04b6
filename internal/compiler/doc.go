// Package compiler translates between the surface language and Books.
//
// Parse reads source text into an AST of Trees, Build lowers that AST into an
// ir.Book of closed graph templates, and Readback walks a reduced graph to
// reconstruct a printable Net.
//
// A program is a list of definitions:
//
//	@main = (a b) & @fun ~ (a b)
//
// Variables are wire names. Each one must occur exactly twice within its
// definition; the two occurrences are the two ends of the wire.
package compiler
