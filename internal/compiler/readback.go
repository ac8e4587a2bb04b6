package compiler

import (
	"github.com/saikumarakula/HVM/internal/ir"
)

// Graph is the read-only view of a reduced net that readback walks.
type Graph interface {
	NodeCap() uint32
	NodeLoad(loc uint32) ir.Pair
	Resolve(p ir.Port) ir.Port
}

// Reader reconstructs a surface Net from a reduced graph.
//
// Reading takes two passes. The first counts how often each node and wire is
// reached. The second builds trees: a wire becomes a Var, and a node reached
// more than once (sharing, or a cycle) is emitted once as a binding
// `& name ~ tree` and referred to by name everywhere else.
type Reader struct {
	graph Graph
	book  *ir.Book

	visited map[uint32]int    // node address -> arrivals
	uses    map[uint32]int    // wire -> occurrences
	order   []uint32          // wires in first-seen order
	names   map[uint32]string // wire -> name
	shared  map[uint32]string // node address -> name
	rbag    []Redex
	fresh   int
}

// NewReader creates a Reader over g. book resolves REF ports to names.
func NewReader(g Graph, book *ir.Book) *Reader {
	return &Reader{
		graph:   g,
		book:    book,
		visited: map[uint32]int{},
		uses:    map[uint32]int{},
		names:   map[uint32]string{},
		shared:  map[uint32]string{},
	}
}

// Readback reads the net hanging off root.
func Readback(g Graph, book *ir.Book, root ir.Port) (*Net, error) {
	return NewReader(g, book).Read(root)
}

// Read reads the net hanging off root. A Reader is single-use.
func (r *Reader) Read(root ir.Port) (*Net, error) {
	if err := r.count(root); err != nil {
		return nil, err
	}
	for _, v := range r.order {
		if r.uses[v] != 2 {
			return nil, &ReadbackError{Port: ir.NewPort(ir.VAR, v), Reason: "dangling wire"}
		}
	}
	tree, err := r.tree(root)
	if err != nil {
		return nil, err
	}
	return &Net{Root: tree, Rbag: r.rbag}, nil
}

func (r *Reader) count(p ir.Port) error {
	p = r.graph.Resolve(p)
	switch {
	case p == ir.NONE:
		return &ReadbackError{Port: p, Reason: "unset port"}
	case p.IsVar():
		if r.uses[p.Val()] == 0 {
			r.order = append(r.order, p.Val())
		}
		r.uses[p.Val()]++
	case p.IsNode():
		if p.Val() >= r.graph.NodeCap() {
			return &ReadbackError{Port: p, Reason: "node address out of range"}
		}
		r.visited[p.Val()]++
		if r.visited[p.Val()] > 1 {
			return nil
		}
		n := r.graph.NodeLoad(p.Val())
		if n == 0 {
			return &ReadbackError{Port: p, Reason: "free node slot"}
		}
		if err := r.count(n.Fst()); err != nil {
			return err
		}
		return r.count(n.Snd())
	}
	return nil
}

func (r *Reader) tree(p ir.Port) (Tree, error) {
	p = r.graph.Resolve(p)
	switch p.Tag() {
	case ir.VAR:
		name, ok := r.names[p.Val()]
		if !ok {
			name = r.nextName()
			r.names[p.Val()] = name
		}
		return Var{Name: name}, nil
	case ir.REF:
		if r.book == nil || r.book.Name(p.Val()) == "" {
			return nil, &ReadbackError{Port: p, Reason: "unknown definition"}
		}
		return Ref{Name: r.book.Name(p.Val())}, nil
	case ir.ERA:
		return Era{}, nil
	case ir.NUM:
		return Num{Value: ir.Numb(p.Val())}, nil
	}

	if r.visited[p.Val()] <= 1 {
		return r.node(p)
	}
	if name, ok := r.shared[p.Val()]; ok {
		return Var{Name: name}, nil
	}
	name := r.nextName()
	r.shared[p.Val()] = name
	body, err := r.node(p)
	if err != nil {
		return nil, err
	}
	r.rbag = append(r.rbag, Redex{A: Var{Name: name}, B: body})
	return Var{Name: name}, nil
}

func (r *Reader) node(p ir.Port) (Tree, error) {
	n := r.graph.NodeLoad(p.Val())
	fst, err := r.tree(n.Fst())
	if err != nil {
		return nil, err
	}
	snd, err := r.tree(n.Snd())
	if err != nil {
		return nil, err
	}
	return Node{Kind: p.Tag(), Fst: fst, Snd: snd}, nil
}

// nextName yields a, b, ..., z, aa, ab, ...
func (r *Reader) nextName() string {
	n := r.fresh
	r.fresh++
	name := ""
	for {
		name = string(rune('a'+n%26)) + name
		n = n/26 - 1
		if n < 0 {
			return name
		}
	}
}
