package engine

import (
	"github.com/saikumarakula/HVM/internal/ir"
)

// interact fires one redex. Every rule except LINK counts as one interaction.
func (w *Worker) interact(net *Net, book *ir.Book, redex ir.Pair) error {
	a, b := ir.Orient(redex.Fst(), redex.Snd())

	var err error
	switch ir.RuleOf(a.Tag(), b.Tag()) {
	case ir.LINK:
		return NewIllegalPairError(w.tid, a, b, "wire endpoint queued as an active pair")
	case ir.CALL:
		err = w.call(net, book, a, b)
	case ir.VOID:
	case ir.ERAS:
		err = w.eras(net, a, b)
	case ir.ANNI:
		err = w.anni(net, a, b)
	case ir.COMM:
		err = w.comm(net, a, b)
	case ir.OPER:
		err = w.oper(net, a, b)
	case ir.SWIT:
		err = w.swit(net, a, b)
	}
	if err != nil {
		return err
	}
	w.itrs++
	return nil
}

// takeNode consumes the node behind p. A slot that is out of range or already
// free means some other redex got there first, which never happens in a
// well-formed net.
func (w *Worker) takeNode(net *Net, p, other ir.Port) (ir.Pair, error) {
	if p.Val() >= net.NodeCap() {
		return 0, NewIllegalPairError(w.tid, p, other, "node address out of range")
	}
	n := net.NodeTake(p.Val())
	if n == 0 {
		return 0, NewIllegalPairError(w.tid, p, other, "node already consumed")
	}
	return n, nil
}

// call expands a reference into a fresh copy of its definition. A safe
// definition facing a duplicator is copied as a leaf instead.
func (w *Worker) call(net *Net, book *ir.Book, a, b ir.Port) error {
	if int(a.Val()) >= len(book.Defs) {
		return NewIllegalPairError(w.tid, a, b, "reference to unknown definition")
	}
	def := &book.Defs[a.Val()]
	if def.Safe && b.Tag() == ir.DUP {
		return w.eras(net, a, b)
	}
	return w.expand(net, def, b)
}

func (w *Worker) expand(net *Net, def *ir.Def, target ir.Port) error {
	nodeBase, err := w.allocNodes(net, uint32(len(def.Node)))
	if err != nil {
		return err
	}
	varBase, err := w.allocVars(net, uint32(def.Vars))
	if err != nil {
		return err
	}

	for i := uint32(0); i < uint32(def.Vars); i++ {
		net.VarsCreate(varBase+i, ir.NONE)
	}
	for i, n := range def.Node {
		net.NodeCreate(nodeBase+uint32(i), n.Adjust(nodeBase, varBase))
	}
	for _, redex := range def.Rbag {
		w.LinkPair(net, redex.Adjust(nodeBase, varBase))
	}
	w.Link(net, def.Root.Adjust(nodeBase, varBase), target)
	return nil
}

// eras copies the leaf a into both aux ports of b.
func (w *Worker) eras(net *Net, a, b ir.Port) error {
	bn, err := w.takeNode(net, b, a)
	if err != nil {
		return err
	}
	w.Link(net, a, bn.Fst())
	w.Link(net, a, bn.Snd())
	return nil
}

// anni cross-links the aux ports of two nodes of the same kind.
func (w *Worker) anni(net *Net, a, b ir.Port) error {
	an, err := w.takeNode(net, a, b)
	if err != nil {
		return err
	}
	bn, err := w.takeNode(net, b, a)
	if err != nil {
		return err
	}
	w.Link(net, an.Fst(), bn.Fst())
	w.Link(net, an.Snd(), bn.Snd())
	return nil
}

// comm lets two nodes of different kinds pass through each other: each is
// duplicated onto the other's aux ports, with four fresh wires crossing.
func (w *Worker) comm(net *Net, a, b ir.Port) error {
	nb, err := w.allocNodes(net, 4)
	if err != nil {
		return err
	}
	vb, err := w.allocVars(net, 4)
	if err != nil {
		return err
	}
	an, err := w.takeNode(net, a, b)
	if err != nil {
		return err
	}
	bn, err := w.takeNode(net, b, a)
	if err != nil {
		return err
	}

	v := func(i uint32) ir.Port { return ir.NewPort(ir.VAR, vb+i) }
	for i := uint32(0); i < 4; i++ {
		net.VarsCreate(vb+i, ir.NONE)
	}
	net.NodeCreate(nb+0, ir.NewPair(v(0), v(1)))
	net.NodeCreate(nb+1, ir.NewPair(v(2), v(3)))
	net.NodeCreate(nb+2, ir.NewPair(v(0), v(2)))
	net.NodeCreate(nb+3, ir.NewPair(v(1), v(3)))

	w.Link(net, ir.NewPort(b.Tag(), nb+0), an.Fst())
	w.Link(net, ir.NewPort(b.Tag(), nb+1), an.Snd())
	w.Link(net, ir.NewPort(a.Tag(), nb+2), bn.Fst())
	w.Link(net, ir.NewPort(a.Tag(), nb+3), bn.Snd())
	return nil
}

// oper feeds a number into an operator node. If the node already holds the
// other operand the result goes out through its second aux port. Otherwise the
// node is rebuilt around the number, waiting for the operand in its first aux.
func (w *Worker) oper(net *Net, a, b ir.Port) error {
	bn, err := w.takeNode(net, b, a)
	if err != nil {
		return err
	}
	b1, b2 := bn.Fst(), bn.Snd()

	if b1.Tag() == ir.NUM {
		res := ir.Operate(ir.Numb(a.Val()), ir.Numb(b1.Val()))
		w.Link(net, ir.NewPort(ir.NUM, uint32(res)), b2)
		return nil
	}

	n, err := w.allocNodes(net, 1)
	if err != nil {
		return err
	}
	net.NodeCreate(n, ir.NewPair(a, b2))
	w.Link(net, b1, ir.NewPort(ir.OPR, n))
	return nil
}

// swit selects a branch. The first aux of the switch receives a CON pair of
// (zero case, successor case). The unused case is erased; the successor case
// receives the predecessor as its argument.
func (w *Worker) swit(net *Net, a, b ir.Port) error {
	bn, err := w.takeNode(net, b, a)
	if err != nil {
		return err
	}
	b1, b2 := bn.Fst(), bn.Snd()
	era := ir.NewPort(ir.ERA, 0)

	v := ir.Numb(a.Val()).Value()
	if v == 0 {
		n, err := w.allocNodes(net, 1)
		if err != nil {
			return err
		}
		net.NodeCreate(n, ir.NewPair(b2, era))
		w.Link(net, ir.NewPort(ir.CON, n), b1)
		return nil
	}

	n, err := w.allocNodes(net, 2)
	if err != nil {
		return err
	}
	pred := ir.NewPort(ir.NUM, uint32(ir.U24(v-1)))
	net.NodeCreate(n+0, ir.NewPair(era, ir.NewPort(ir.CON, n+1)))
	net.NodeCreate(n+1, ir.NewPair(pred, b2))
	w.Link(net, ir.NewPort(ir.CON, n+0), b1)
	return nil
}
