package engine

import (
	"github.com/saikumarakula/HVM/internal/ir"
)

// DefaultWindowSize is how many slots a worker reserves from the Global Net
// per arena in one go. Allocations are then served locally until the window
// runs out.
const DefaultWindowSize uint32 = 256

// Worker is one reduction thread. It owns a redex bag and allocation windows
// into both arenas; everything else is shared through the Net.
//
// A Worker is not safe for concurrent use. Run gives each goroutine its own.
type Worker struct {
	tid  int
	tids int
	itrs uint64

	rbag RBag

	windowSize uint32
	nodes      window
	vars       window

	sched  *scheduler
	shared uint64
}

type window struct {
	next, end uint32
}

// NewWorker creates worker tid of tids. A worker only offers redexes to peers
// when tids > 1. Outside Run a worker evaluates only its own bag; see Evaluate.
func NewWorker(tid, tids int) *Worker {
	return &Worker{tid: tid, tids: tids, windowSize: DefaultWindowSize}
}

// ID returns the worker's index and the number of workers in its run.
func (w *Worker) ID() (tid, tids int) { return w.tid, w.tids }

// Pending returns the number of redexes in the worker's bag.
func (w *Worker) Pending() int { return w.rbag.Len() }

func (w *Worker) allocNodes(net *Net, k uint32) (uint32, error) {
	return w.nodes.take(k, w.windowSize, net.AllocNodes)
}

func (w *Worker) allocVars(net *Net, k uint32) (uint32, error) {
	return w.vars.take(k, w.windowSize, net.AllocVars)
}

func (win *window) take(k, size uint32, reserve func(uint32) (uint32, error)) (uint32, error) {
	if k == 0 {
		return win.next, nil
	}
	if win.end-win.next >= k {
		base := win.next
		win.next += k
		return base, nil
	}
	if k >= size {
		return reserve(k)
	}
	base, err := reserve(size)
	if err != nil {
		// The arena may be too full for a window but not for this request.
		return reserve(k)
	}
	win.next, win.end = base+k, base+size
	return base, nil
}

// PushRedex adds an active pair to the worker's bag.
func (w *Worker) PushRedex(redex ir.Pair) {
	if w.sched != nil {
		w.sched.pending.Add(1)
	}
	w.rbag.Push(redex)
}

// Link connects two ports.
//
// If neither is a wire endpoint the pair is a new redex. Otherwise the binding
// is published on the wire with an atomic exchange. Whoever finds the wire
// already bound owns both ends and carries on linking what it found, so no
// substitution is ever lost and none is applied twice.
func (w *Worker) Link(net *Net, a, b ir.Port) {
	for {
		if !a.IsVar() {
			a, b = b, a
		}
		if !a.IsVar() {
			w.PushRedex(ir.NewPair(a, b))
			return
		}
		b = net.Enter(b)
		if b == a {
			// A wire closed onto itself: a loop no port can reach.
			net.VarsTake(a.Val())
			return
		}
		prev := net.VarsExchange(a.Val(), b)
		if prev == ir.NONE {
			return
		}
		net.VarsTake(a.Val())
		a = prev
	}
}

// LinkPair links both sides of a template redex.
func (w *Worker) LinkPair(net *Net, p ir.Pair) {
	w.Link(net, p.Fst(), p.Snd())
}

// Boot instantiates the entry definition against the root wire.
// Boot is not counted as an interaction.
func (w *Worker) Boot(net *Net, book *ir.Book) error {
	id, ok := book.Lookup(ir.EntryName)
	if !ok {
		return NewMissingEntryError(ir.EntryName)
	}
	return w.expand(net, &book.Defs[id], ir.NewPort(ir.VAR, ir.RootVar))
}

// Interact pops and fires one redex. It reports false when the bag is empty.
func (w *Worker) Interact(net *Net, book *ir.Book) (bool, error) {
	redex, ok := w.rbag.Pop()
	if !ok {
		return false, nil
	}
	return true, w.interact(net, book, redex)
}

// Evaluate reduces the worker's own bag until it is empty. Redexes pushed
// during evaluation are reduced as well.
func (w *Worker) Evaluate(net *Net, book *ir.Book) error {
	defer w.flush(net)
	for {
		ok, err := w.Interact(net, book)
		if err != nil || !ok {
			return err
		}
	}
}

func (w *Worker) flush(net *Net) {
	net.addInteractions(w.itrs)
	w.itrs = 0
}
