package codegen

import (
	"fmt"
	"strings"

	"github.com/saikumarakula/HVM/internal/ir"
)

var nodeTagNames = map[ir.Tag]string{
	ir.VAR: "VAR", ir.REF: "REF", ir.ERA: "ERA", ir.NUM: "NUM",
	ir.CON: "CON", ir.DUP: "DUP", ir.OPR: "OPR", ir.SWI: "SWI",
}

// CompileBook emits one specialised reducer per definition, a dispatcher
// keyed by definition id, and the rule table, for splicing into a runtime
// template. Output depends only on the Book and the target.
func CompileBook(target Target, book *ir.Book) string {
	g := &generator{target: target, q: target.qualifier()}
	names := functionNames(book)

	g.ruleTable()
	for fid := range book.Defs {
		g.emit("\n")
		g.def(&book.Defs[fid], names[fid])
	}
	g.emit("\n")
	g.dispatch(names)
	return g.sb.String()
}

type generator struct {
	target Target
	q      string
	sb     strings.Builder
}

func (g *generator) emit(format string, args ...any) {
	fmt.Fprintf(&g.sb, format, args...)
}

func (g *generator) ruleTable() {
	table := ir.RuleTable()
	g.emit("%sconst u8 COMPILED_RULE_TABLE[8][8] = {\n", g.q)
	for _, row := range table {
		cells := make([]string, len(row))
		for i, r := range row {
			cells[i] = r.String()
		}
		g.emit("  {%s},\n", strings.Join(cells, ", "))
	}
	g.emit("};\n")
}

func (g *generator) dispatch(names []string) {
	g.emit("%sbool interact_call(Net *net, TM *tm, Port a, Port b) {\n", g.q)
	g.emit("  u32 fid = get_val(a);\n")
	g.emit("  switch (fid) {\n")
	for fid, name := range names {
		g.emit("    case %d: return interact_call_%s(net, tm, a, b);\n", fid, name)
	}
	g.emit("    default: return false;\n")
	g.emit("  }\n")
	g.emit("}\n")
}

func (g *generator) def(def *ir.Def, name string) {
	g.emit("%sbool interact_call_%s(Net *net, TM *tm, Port a, Port b) {\n", g.q, name)

	if def.Safe {
		g.emit("  if (get_tag(b) == DUP) {\n")
		g.emit("    return interact_eras(net, tm, a, b);\n")
		g.emit("  }\n")
	}

	var checks []string
	if def.Vars > 0 {
		g.emit("  u32 vl = 0;\n")
	}
	if len(def.Node) > 0 {
		g.emit("  u32 nl = 0;\n")
	}
	for i := 0; i < def.Vars; i++ {
		g.emit("  Val v%x = vars_alloc_1(net, tm, &vl);\n", i)
		checks = append(checks, fmt.Sprintf("!v%x", i))
	}
	for i := range def.Node {
		g.emit("  Val n%x = node_alloc_1(net, tm, &nl);\n", i)
		checks = append(checks, fmt.Sprintf("!n%x", i))
	}
	if len(checks) > 0 {
		g.emit("  if (0 || %s) {\n", strings.Join(checks, " || "))
		g.emit("    return false;\n")
		g.emit("  }\n")
	}
	for i := 0; i < def.Vars; i++ {
		g.emit("  vars_create(net, v%x, NONE);\n", i)
	}

	for _, redex := range def.Rbag {
		a := g.port(def, redex.Fst(), "  ")
		b := g.port(def, redex.Snd(), "  ")
		g.emit("  link(net, tm, %s, %s);\n", a, b)
	}

	g.fastPath(def)
	root := g.port(def, def.Root, "  ")
	g.emit("  link(net, tm, %s, b);\n", root)
	g.emit("  return true;\n")
	g.emit("}\n")
}

// fastPath inlines the first interaction when the definition's root and the
// port it faces are known to annihilate or erase, skipping a trip through the
// redex bag.
func (g *generator) fastPath(def *ir.Def) {
	root := def.Root
	var tags []ir.Tag
	var fst, snd ir.Port

	switch {
	case root.IsNode():
		if ir.RuleOf(root.Tag(), root.Tag()) != ir.ANNI {
			return
		}
		tags = []ir.Tag{root.Tag()}
		n := def.Node[root.Val()]
		fst, snd = n.Fst(), n.Snd()
	case root.IsVar():
		return
	default:
		for _, t := range []ir.Tag{ir.CON, ir.DUP, ir.OPR, ir.SWI} {
			if ir.RuleOf(root.Tag(), t) == ir.ERAS {
				tags = append(tags, t)
			}
		}
		fst, snd = root, root
	}
	if len(tags) == 0 {
		return
	}

	conds := make([]string, len(tags))
	for i, t := range tags {
		conds[i] = "get_tag(b) == " + nodeTagNames[t]
	}
	g.emit("  if (%s) {\n", strings.Join(conds, " || "))
	g.emit("    Pair bp = node_take(net, get_val(b));\n")
	g.emit("    Port b0 = get_fst(bp);\n")
	g.emit("    Port b1 = get_snd(bp);\n")
	a0 := g.port(def, fst, "    ")
	g.emit("    link(net, tm, %s, b0);\n", a0)
	a1 := g.port(def, snd, "    ")
	g.emit("    link(net, tm, %s, b1);\n", a1)
	g.emit("    tm->itrs += 1;\n")
	g.emit("    return true;\n")
	g.emit("  }\n")
}

// port returns a C expression for a template port, first emitting the stores
// of any nodes below it, children before parents.
func (g *generator) port(def *ir.Def, p ir.Port, indent string) string {
	switch {
	case p.IsVar():
		return fmt.Sprintf("new_port(VAR, v%x)", p.Val())
	case p.IsNode():
		n := def.Node[p.Val()]
		fst := g.port(def, n.Fst(), indent)
		snd := g.port(def, n.Snd(), indent)
		g.emit("%snode_create(net, n%x, new_pair(%s, %s));\n", indent, p.Val(), fst, snd)
		return fmt.Sprintf("new_port(%s, n%x)", nodeTagNames[p.Tag()], p.Val())
	default:
		return fmt.Sprintf("new_port(%s, 0x%08x)", nodeTagNames[p.Tag()], p.Val())
	}
}

// functionNames maps each definition to a C identifier. Characters outside
// [A-Za-z0-9_] become '_'; a name that collides with an earlier one gets its
// definition id appended.
func functionNames(book *ir.Book) []string {
	names := make([]string, len(book.Defs))
	used := map[string]bool{}
	for fid, def := range book.Defs {
		name := sanitize(def.Name)
		for used[name] {
			name = fmt.Sprintf("%s_%d", name, fid)
		}
		used[name] = true
		names[fid] = name
	}
	return names
}

func sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
