package compiler

import (
	"sort"

	"github.com/saikumarakula/HVM/internal/ir"
)

// Compile parses and builds a program in one step.
func Compile(src string) (*ir.Book, error) {
	parsed, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return parsed.Build()
}

// Build lowers the parsed program into a Book.
//
// Definitions are numbered in name order, so the same program always yields
// the same Book. Inside a definition, nodes are numbered in pre-order starting
// with the root and then each redex; a wire gets its number at its first
// occurrence. Every wire must occur exactly twice.
func (b *Book) Build() (*ir.Book, error) {
	ids := make(map[string]uint32, len(b.Defs))
	order := make([]*Definition, 0, len(b.Defs))
	for i := range b.Defs {
		d := &b.Defs[i]
		if _, dup := ids[d.Name]; dup {
			return nil, &BuildError{Definition: d.Name, Message: "duplicate definition"}
		}
		ids[d.Name] = 0
		order = append(order, d)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Name < order[j].Name })
	for i, d := range order {
		ids[d.Name] = uint32(i)
	}

	book := &ir.Book{Defs: make([]ir.Def, len(order))}
	for i, d := range order {
		def, err := buildDef(d, ids)
		if err != nil {
			return nil, err
		}
		book.Defs[i] = def
	}
	markSafe(book)
	return book, nil
}

type lowering struct {
	def   *ir.Def
	name  string
	ids   map[string]uint32
	wires map[string]uint32
	uses  map[string]int
	order []string
}

func buildDef(d *Definition, ids map[string]uint32) (ir.Def, error) {
	l := &lowering{
		def:   &ir.Def{Name: d.Name},
		name:  d.Name,
		ids:   ids,
		wires: map[string]uint32{},
		uses:  map[string]int{},
	}

	root, err := l.tree(d.Net.Root)
	if err != nil {
		return ir.Def{}, err
	}
	l.def.Root = root
	for _, r := range d.Net.Rbag {
		a, err := l.tree(r.A)
		if err != nil {
			return ir.Def{}, err
		}
		b, err := l.tree(r.B)
		if err != nil {
			return ir.Def{}, err
		}
		l.def.Rbag = append(l.def.Rbag, ir.NewPair(a, b))
	}

	for _, name := range l.order {
		if n := l.uses[name]; n != 2 {
			msg := "unbound variable"
			if n > 2 {
				msg = "variable used more than twice"
			}
			return ir.Def{}, &BuildError{Definition: d.Name, Name: name, Message: msg}
		}
	}
	l.def.Vars = len(l.wires)
	return *l.def, nil
}

func (l *lowering) tree(t Tree) (ir.Port, error) {
	switch t := t.(type) {
	case Var:
		v, ok := l.wires[t.Name]
		if !ok {
			v = uint32(len(l.wires))
			l.wires[t.Name] = v
			l.order = append(l.order, t.Name)
		}
		l.uses[t.Name]++
		return ir.NewPort(ir.VAR, v), nil
	case Ref:
		id, ok := l.ids[t.Name]
		if !ok {
			return 0, &BuildError{Definition: l.name, Name: "@" + t.Name, Message: "unknown reference"}
		}
		return ir.NewPort(ir.REF, id), nil
	case Era:
		return ir.NewPort(ir.ERA, 0), nil
	case Num:
		return ir.NewPort(ir.NUM, uint32(t.Value)), nil
	case Node:
		loc := uint32(len(l.def.Node))
		l.def.Node = append(l.def.Node, 0)
		fst, err := l.tree(t.Fst)
		if err != nil {
			return 0, err
		}
		snd, err := l.tree(t.Snd)
		if err != nil {
			return 0, err
		}
		l.def.Node[loc] = ir.NewPair(fst, snd)
		return ir.NewPort(t.Kind, loc), nil
	default:
		return 0, &BuildError{Definition: l.name, Message: "unsupported tree"}
	}
}

// markSafe flags every definition that contains no DUP node and references
// only safe definitions.
func markSafe(book *ir.Book) {
	unsafe := make([]bool, len(book.Defs))
	refs := make([][]uint32, len(book.Defs))
	for i := range book.Defs {
		d := &book.Defs[i]
		visit := func(p ir.Port) {
			switch p.Tag() {
			case ir.DUP:
				unsafe[i] = true
			case ir.REF:
				refs[i] = append(refs[i], p.Val())
			}
		}
		visit(d.Root)
		for _, n := range d.Node {
			visit(n.Fst())
			visit(n.Snd())
		}
		for _, r := range d.Rbag {
			visit(r.Fst())
			visit(r.Snd())
		}
	}

	for changed := true; changed; {
		changed = false
		for i := range book.Defs {
			if unsafe[i] {
				continue
			}
			for _, r := range refs[i] {
				if unsafe[r] {
					unsafe[i] = true
					changed = true
					break
				}
			}
		}
	}
	for i := range book.Defs {
		book.Defs[i].Safe = !unsafe[i]
	}
}
