package ir

// Def is a compiled global definition: a closed sub-graph template with its own
// private arena. Node and variable addresses inside a Def are local and are
// relocated by Port.Adjust when the definition is instantiated.
type Def struct {
	// Name is the definition's surface name (without the leading '@').
	Name string `json:"name"`

	// Safe reports that neither this definition nor anything it references
	// contains a DUP node, so a reference to it may be copied by a duplicator
	// instead of expanded.
	Safe bool `json:"safe"`

	// Root is the entry port, linked to whatever the reference faced.
	Root Port `json:"root"`

	// Rbag holds the redexes present in the template.
	Rbag []Pair `json:"rbag"`

	// Node holds the template nodes in address order.
	Node []Pair `json:"node"`

	// Vars is the number of wires the template allocates.
	Vars int `json:"vars"`
}

// Book is the ordered set of compiled definitions. The index of a Def is the
// value carried by REF ports that name it.
//
// A Book is read-only once built and may be shared by any number of workers.
type Book struct {
	Defs []Def `json:"defs"`
}

// Lookup returns the index of the named definition.
func (b *Book) Lookup(name string) (uint32, bool) {
	for i := range b.Defs {
		if b.Defs[i].Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// Name returns the name of definition id, or "" when out of range.
func (b *Book) Name(id uint32) string {
	if int(id) >= len(b.Defs) {
		return ""
	}
	return b.Defs[id].Name
}

// EntryName is the definition a run starts from.
const EntryName = "main"
