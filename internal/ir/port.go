package ir

import "fmt"

// Tag selects the kind of a Port.
type Tag uint8

const (
	VAR Tag = 0x0 // variable (wire endpoint)
	REF Tag = 0x1 // reference to a Book definition
	ERA Tag = 0x2 // eraser
	NUM Tag = 0x3 // number
	CON Tag = 0x4 // constructor
	DUP Tag = 0x5 // duplicator
	OPR Tag = 0x6 // numeric operator
	SWI Tag = 0x7 // numeric switch
)

var tagNames = [8]string{"VAR", "REF", "ERA", "NUM", "CON", "DUP", "OPR", "SWI"}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("TAG(%d)", uint8(t))
}

// IsNode reports whether the tag denotes a binary node stored in the arena.
func (t Tag) IsNode() bool {
	return t >= CON
}

const (
	tagBits = 3
	tagMask = 1<<tagBits - 1

	// ValBits is the width of a Port's value field.
	ValBits = 32 - tagBits

	// MaxAddr bounds every arena. NONE decodes to SWI with value MaxAddr, so no
	// real node may live there.
	MaxAddr = 1<<ValBits - 1
)

// Port is a tagged reference: the smallest unit of the graph.
type Port uint32

const (
	// FREE marks an empty slot. It is also VAR 0, the root wire, which is
	// never stored inside a node.
	FREE Port = 0x00000000

	// NONE marks a wire that has not been bound yet.
	NONE Port = 0xFFFFFFFF
)

// RootVar is the variable address of the root wire of a run.
const RootVar uint32 = 0

// NewPort builds a Port from a tag and a value. Values wider than ValBits are
// truncated.
func NewPort(tag Tag, val uint32) Port {
	return Port(val<<tagBits | uint32(tag))
}

// Tag returns the port's tag.
func (p Port) Tag() Tag {
	return Tag(p & tagMask)
}

// Val returns the port's value field.
func (p Port) Val() uint32 {
	return uint32(p) >> tagBits
}

// IsNode reports whether the port points at an arena node.
func (p Port) IsNode() bool {
	return p.Tag().IsNode()
}

// IsVar reports whether the port is a wire endpoint.
func (p Port) IsVar() bool {
	return p.Tag() == VAR
}

// Adjust relocates a template port into live addresses: node ports are offset
// by nodeBase and variables by varBase. Leaves are returned unchanged.
func (p Port) Adjust(nodeBase, varBase uint32) Port {
	switch {
	case p.IsNode():
		return NewPort(p.Tag(), p.Val()+nodeBase)
	case p.IsVar():
		return NewPort(VAR, p.Val()+varBase)
	default:
		return p
	}
}

func (p Port) String() string {
	if p == NONE {
		return "NONE"
	}
	if p.Tag() == NUM {
		return fmt.Sprintf("NUM:%s", Numb(p.Val()))
	}
	return fmt.Sprintf("%s:%07x", p.Tag(), p.Val())
}

// Pair packs two Ports: a node's auxiliary ports or a redex.
type Pair uint64

// NewPair packs fst in the low half and snd in the high half.
func NewPair(fst, snd Port) Pair {
	return Pair(uint64(snd)<<32 | uint64(fst))
}

// Fst returns the first port.
func (p Pair) Fst() Port {
	return Port(p & 0xFFFFFFFF)
}

// Snd returns the second port.
func (p Pair) Snd() Port {
	return Port(p >> 32)
}

// Adjust relocates both ports (see Port.Adjust).
func (p Pair) Adjust(nodeBase, varBase uint32) Pair {
	return NewPair(p.Fst().Adjust(nodeBase, varBase), p.Snd().Adjust(nodeBase, varBase))
}

func (p Pair) String() string {
	return fmt.Sprintf("%s ~ %s", p.Fst(), p.Snd())
}
