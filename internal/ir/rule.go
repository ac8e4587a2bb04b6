package ir

// Rule identifies an interaction rule.
type Rule uint8

const (
	LINK Rule = 0x0 // a wire endpoint meets anything: substitute
	CALL Rule = 0x1 // a reference meets a node: expand the definition
	VOID Rule = 0x2 // two leaves meet: both vanish
	ERAS Rule = 0x3 // a leaf meets a node: copy the leaf into both aux ports
	ANNI Rule = 0x4 // two nodes of the same kind: cross-link aux ports
	COMM Rule = 0x5 // two nodes of different kinds: pass through each other
	OPER Rule = 0x6 // a number meets an operator node
	SWIT Rule = 0x7 // a number meets a switch node
)

var ruleNames = [8]string{"LINK", "CALL", "VOID", "ERAS", "ANNI", "COMM", "OPER", "SWIT"}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "RULE(?)"
}

// ruleTable is the single source of truth for redex dispatch. Rows and columns
// are indexed by Tag.
var ruleTable = [8][8]Rule{
	//       VAR   REF   ERA   NUM   CON   DUP   OPR   SWI
	/*VAR*/ {LINK, LINK, LINK, LINK, LINK, LINK, LINK, LINK},
	/*REF*/ {LINK, VOID, VOID, VOID, CALL, CALL, CALL, CALL},
	/*ERA*/ {LINK, VOID, VOID, VOID, ERAS, ERAS, ERAS, ERAS},
	/*NUM*/ {LINK, VOID, VOID, VOID, ERAS, ERAS, OPER, SWIT},
	/*CON*/ {LINK, CALL, ERAS, ERAS, ANNI, COMM, COMM, COMM},
	/*DUP*/ {LINK, CALL, ERAS, ERAS, COMM, ANNI, COMM, COMM},
	/*OPR*/ {LINK, CALL, ERAS, OPER, COMM, COMM, ANNI, COMM},
	/*SWI*/ {LINK, CALL, ERAS, SWIT, COMM, COMM, COMM, ANNI},
}

// RuleOf returns the interaction rule for two facing tags.
func RuleOf(a, b Tag) Rule {
	return ruleTable[a&tagMask][b&tagMask]
}

// RuleTable returns a copy of the dispatch table, for code generators.
func RuleTable() [8][8]Rule {
	return ruleTable
}

// ShouldSwap reports whether a redex must be flipped so the port with the
// smaller tag is on the left, which is the orientation every rule expects.
func ShouldSwap(a, b Port) bool {
	return b.Tag() < a.Tag()
}

// Orient returns the redex ports in rule orientation.
func Orient(a, b Port) (Port, Port) {
	if ShouldSwap(a, b) {
		return b, a
	}
	return a, b
}

// IsHighPriority reports whether a rule never grows the net. Such redexes are
// drained before expanding ones.
func (r Rule) IsHighPriority() bool {
	switch r {
	case VOID, ERAS, ANNI, OPER, SWIT:
		return true
	}
	return false
}
