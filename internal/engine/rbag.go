package engine

import "github.com/saikumarakula/HVM/internal/ir"

// RBag is a worker's pending-redex bag.
//
// Redexes whose rule never grows the net (see ir.Rule.IsHighPriority) are kept
// on a separate stack and drained first. Order within a stack is LIFO; any
// order is valid because the rewrite system is confluent.
type RBag struct {
	hi []ir.Pair
	lo []ir.Pair
}

// Push adds a redex.
func (b *RBag) Push(redex ir.Pair) {
	if ir.RuleOf(redex.Fst().Tag(), redex.Snd().Tag()).IsHighPriority() {
		b.hi = append(b.hi, redex)
		return
	}
	b.lo = append(b.lo, redex)
}

// Pop removes a redex, preferring high-priority ones.
func (b *RBag) Pop() (ir.Pair, bool) {
	if n := len(b.hi); n > 0 {
		r := b.hi[n-1]
		b.hi = b.hi[:n-1]
		return r, true
	}
	if n := len(b.lo); n > 0 {
		r := b.lo[n-1]
		b.lo = b.lo[:n-1]
		return r, true
	}
	return 0, false
}

// popLow removes the oldest low-priority redex. Expanding redexes are the ones
// worth handing to an idle worker.
func (b *RBag) popLow() (ir.Pair, bool) {
	if len(b.lo) == 0 {
		return 0, false
	}
	r := b.lo[0]
	b.lo = b.lo[1:]
	return r, true
}

// Len returns the number of pending redexes.
func (b *RBag) Len() int {
	return len(b.hi) + len(b.lo)
}
