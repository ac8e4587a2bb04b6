package engine

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/saikumarakula/HVM/internal/ir"
)

// Net is the Global Net: the shared graph store of one run.
//
// It owns two bump-allocated arenas: node slots (Pairs) and variable slots
// (Ports). Every slot is accessed atomically. Workers never coordinate through
// node slots they do not own; "what a wire resolves to" is published only by
// single-slot exchanges on the variable arena.
//
// Slot conventions:
//   - node 0 is reserved, so address 0 never names a live node
//   - var 0 is the root wire of the run
//   - a zero Pair marks a free (never allocated, or consumed) node
//   - NONE marks a wire that nobody has bound yet
type Net struct {
	node []atomic.Uint64
	vars []atomic.Uint32

	nput atomic.Uint32 // next free node slot
	vput atomic.Uint32 // next free var slot

	itrs atomic.Uint64
}

// NewNet creates a Global Net with the given arena capacities.
func NewNet(nodeCap, varsCap uint32) (*Net, error) {
	if nodeCap < 2 || nodeCap > ir.MaxAddr {
		return nil, fmt.Errorf("node capacity %d out of range [2, %d]", nodeCap, ir.MaxAddr)
	}
	if varsCap < 2 || varsCap > ir.MaxAddr {
		return nil, fmt.Errorf("vars capacity %d out of range [2, %d]", varsCap, ir.MaxAddr)
	}

	n := &Net{
		node: make([]atomic.Uint64, nodeCap),
		vars: make([]atomic.Uint32, varsCap),
	}
	n.nput.Store(1)
	n.vput.Store(ir.RootVar + 1)
	n.vars[ir.RootVar].Store(uint32(ir.NONE))
	return n, nil
}

// NodeCap returns the node arena capacity.
func (n *Net) NodeCap() uint32 { return uint32(len(n.node)) }

// VarsCap returns the variable arena capacity.
func (n *Net) VarsCap() uint32 { return uint32(len(n.vars)) }

// NodesUsed returns how many node slots have been handed out, including the
// reserved slot 0.
func (n *Net) NodesUsed() uint32 { return n.nput.Load() }

// VarsUsed returns how many variable slots have been handed out, including
// the root wire.
func (n *Net) VarsUsed() uint32 { return n.vput.Load() }

// AllocNodes reserves k contiguous node slots and returns the first address.
// Safe for concurrent use. Exhaustion is a fatal CAPACITY_EXHAUSTED error.
func (n *Net) AllocNodes(k uint32) (uint32, error) {
	return bump(&n.nput, k, n.NodeCap(), "node")
}

// AllocVars reserves k contiguous variable slots and returns the first address.
func (n *Net) AllocVars(k uint32) (uint32, error) {
	return bump(&n.vput, k, n.VarsCap(), "vars")
}

func bump(cursor *atomic.Uint32, k, capacity uint32, arena string) (uint32, error) {
	for {
		base := cursor.Load()
		if uint64(base)+uint64(k) > uint64(capacity) {
			return 0, NewCapacityError(arena, k, base, capacity)
		}
		if cursor.CompareAndSwap(base, base+k) {
			return base, nil
		}
	}
}

// NodeCreate initialises a freshly allocated node slot.
func (n *Net) NodeCreate(loc uint32, p ir.Pair) { n.node[loc].Store(uint64(p)) }

// NodeLoad reads a node slot.
func (n *Net) NodeLoad(loc uint32) ir.Pair { return ir.Pair(n.node[loc].Load()) }

// NodeStore overwrites a node slot.
func (n *Net) NodeStore(loc uint32, p ir.Pair) { n.node[loc].Store(uint64(p)) }

// NodeExchange swaps a node slot, returning the previous value.
func (n *Net) NodeExchange(loc uint32, p ir.Pair) ir.Pair {
	return ir.Pair(n.node[loc].Swap(uint64(p)))
}

// NodeTake consumes a node, leaving the slot free.
func (n *Net) NodeTake(loc uint32) ir.Pair { return n.NodeExchange(loc, 0) }

// VarsCreate initialises a freshly allocated variable slot.
func (n *Net) VarsCreate(v uint32, p ir.Port) { n.vars[v].Store(uint32(p)) }

// VarsLoad reads a variable slot.
func (n *Net) VarsLoad(v uint32) ir.Port { return ir.Port(n.vars[v].Load()) }

// VarsStore overwrites a variable slot.
func (n *Net) VarsStore(v uint32, p ir.Port) { n.vars[v].Store(uint32(p)) }

// VarsExchange publishes a binding for wire v and returns the previous one.
// A reader sees either NONE or the complete new port, never a torn value.
func (n *Net) VarsExchange(v uint32, p ir.Port) ir.Port {
	return ir.Port(n.vars[v].Swap(uint32(p)))
}

// VarsTake consumes a wire whose both ends have been resolved.
func (n *Net) VarsTake(v uint32) ir.Port { return n.VarsExchange(v, ir.FREE) }

// Enter follows a chain of bound wires starting at p, consuming every wire it
// passes through, and returns the first unbound wire or non-wire port.
//
// The caller must own the far end of every wire on the chain: the near end
// was already bound by its other owner, so nobody else touches those slots.
func (n *Net) Enter(p ir.Port) ir.Port {
	for p.IsVar() {
		val := n.VarsLoad(p.Val())
		if val == ir.NONE || val == ir.FREE {
			break
		}
		n.VarsTake(p.Val())
		p = val
	}
	return p
}

// Resolve is the read-only variant of Enter used by readback: it follows
// bound wires without consuming them.
func (n *Net) Resolve(p ir.Port) ir.Port {
	for steps := 0; p.IsVar() && steps < len(n.vars); steps++ {
		if p.Val() >= n.VarsCap() {
			break
		}
		val := n.VarsLoad(p.Val())
		if val == ir.NONE || val == ir.FREE {
			break
		}
		p = val
	}
	return p
}

// Interactions returns the number of rewrites performed so far.
func (n *Net) Interactions() uint64 { return n.itrs.Load() }

func (n *Net) addInteractions(k uint64) { n.itrs.Add(k) }

// Show renders every live node and bound wire, for diagnosing a net that
// cannot be read back.
func (n *Net) Show() string {
	var sb strings.Builder
	sb.WriteString("NODES:\n")
	for loc := uint32(1); loc < n.NodesUsed() && loc < n.NodeCap(); loc++ {
		p := n.NodeLoad(loc)
		if p == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %07x: %s %s\n", loc, p.Fst(), p.Snd())
	}
	sb.WriteString("VARS:\n")
	for v := uint32(0); v < n.VarsUsed() && v < n.VarsCap(); v++ {
		p := n.VarsLoad(v)
		if p == ir.FREE || p == ir.NONE {
			continue
		}
		fmt.Fprintf(&sb, "- %07x: %s\n", v, p)
	}
	return sb.String()
}
