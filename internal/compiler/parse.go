package compiler

import (
	"fmt"
	"strconv"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/saikumarakula/HVM/internal/ir"
)

// Parse reads a program.
//
//	book  := ('@' name '=' net)*
//	net   := tree ('&' tree '~' tree)*
//	tree  := '*' | number | '@' name | name
//	       | '(' tree tree ')' | '{' tree tree '}'
//	       | '$(' tree tree ')' | '?(' tree tree ')'
//	number := '#'? (digits | '0x' hex | '[' op digits? ']')
//
// Line comments start with "//". Source is NFC-normalised first so that
// canonically equivalent names are the same name.
func Parse(src string) (*Book, error) {
	p := &parser{src: []rune(norm.NFC.String(src)), line: 1, col: 1}
	book := &Book{}
	for {
		p.skip()
		if p.eof() {
			return book, nil
		}
		def, err := p.definition()
		if err != nil {
			return nil, err
		}
		book.Defs = append(book.Defs, def)
	}
}

// ParseTree reads a single tree, with nothing after it.
func ParseTree(src string) (Tree, error) {
	p := &parser{src: []rune(norm.NFC.String(src)), line: 1, col: 1}
	t, err := p.tree()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after tree", p.peek())
	}
	return t, nil
}

type parser struct {
	src  []rune
	pos  int
	line int
	col  int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune { return p.peekAt(0) }

func (p *parser) peekAt(k int) rune {
	if p.pos+k >= len(p.src) {
		return 0
	}
	return p.src[p.pos+k]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) here() Pos { return Pos{Line: p.line, Col: p.col} }

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: p.line, Col: p.col, Message: fmt.Sprintf(format, args...)}
}

// skip consumes whitespace and line comments.
func (p *parser) skip() {
	for !p.eof() {
		switch r := p.peek(); {
		case unicode.IsSpace(r):
			p.next()
		case r == '/' && p.peekAt(1) == '/':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func (p *parser) expect(r rune) error {
	p.skip()
	if p.eof() {
		return p.errorf("expected %q, found end of input", r)
	}
	if p.peek() != r {
		return p.errorf("expected %q, found %q", r, p.peek())
	}
	p.next()
	return nil
}

func (p *parser) definition() (Definition, error) {
	pos := p.here()
	if err := p.expect('@'); err != nil {
		return Definition{}, err
	}
	name, err := p.name()
	if err != nil {
		return Definition{}, err
	}
	if err := p.expect('='); err != nil {
		return Definition{}, err
	}
	net, err := p.net()
	if err != nil {
		return Definition{}, err
	}
	return Definition{Name: name, Net: net, Pos: pos}, nil
}

func (p *parser) net() (Net, error) {
	root, err := p.tree()
	if err != nil {
		return Net{}, err
	}
	net := Net{Root: root}
	for {
		p.skip()
		if p.peek() != '&' {
			return net, nil
		}
		p.next()
		a, err := p.tree()
		if err != nil {
			return Net{}, err
		}
		if err := p.expect('~'); err != nil {
			return Net{}, err
		}
		b, err := p.tree()
		if err != nil {
			return Net{}, err
		}
		net.Rbag = append(net.Rbag, Redex{A: a, B: b})
	}
}

func (p *parser) tree() (Tree, error) {
	p.skip()
	if p.eof() {
		return nil, p.errorf("expected a tree, found end of input")
	}
	switch r := p.peek(); {
	case r == '*':
		p.next()
		return Era{}, nil
	case r == '@':
		p.next()
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		return Ref{Name: name}, nil
	case r == '(':
		p.next()
		return p.node(ir.CON, ')')
	case r == '{':
		p.next()
		return p.node(ir.DUP, '}')
	case (r == '$' || r == '?') && p.peekAt(1) == '(':
		p.next()
		p.next()
		kind := ir.OPR
		if r == '?' {
			kind = ir.SWI
		}
		return p.node(kind, ')')
	case r == '#' || r == '[' || isDigit(r):
		return p.number()
	case isNameStart(r):
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		return Var{Name: name}, nil
	default:
		return nil, p.errorf("unexpected %q", r)
	}
}

func (p *parser) node(kind ir.Tag, closer rune) (Tree, error) {
	fst, err := p.tree()
	if err != nil {
		return nil, err
	}
	snd, err := p.tree()
	if err != nil {
		return nil, err
	}
	if err := p.expect(closer); err != nil {
		return nil, err
	}
	return Node{Kind: kind, Fst: fst, Snd: snd}, nil
}

func (p *parser) name() (string, error) {
	if p.eof() || !isNameStart(p.peek()) {
		if p.eof() {
			return "", p.errorf("expected a name, found end of input")
		}
		return "", p.errorf("expected a name, found %q", p.peek())
	}
	start := p.pos
	for !p.eof() && isNameChar(p.peek()) {
		p.next()
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) number() (Tree, error) {
	if p.peek() == '#' {
		p.next()
	}
	if p.peek() == '[' {
		return p.operator()
	}
	v, err := p.u24()
	if err != nil {
		return nil, err
	}
	return Num{Value: ir.U24(v)}, nil
}

// operator reads `[op]` or `[opN]`.
func (p *parser) operator() (Tree, error) {
	p.next()
	var op ir.Op
	for _, width := range []int{2, 1} {
		if p.pos+width > len(p.src) {
			continue
		}
		if o, ok := ir.ParseOp(string(p.src[p.pos : p.pos+width])); ok {
			op = o
			for range width {
				p.next()
			}
			break
		}
	}
	if op == 0 {
		return nil, p.errorf("unknown operator")
	}
	if p.peek() == ']' {
		p.next()
		return Num{Value: ir.Sym(op)}, nil
	}
	v, err := p.u24()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return Num{Value: ir.Partial(op, v)}, nil
}

func (p *parser) u24() (uint32, error) {
	pos := p.here()
	start := p.pos
	base := 10
	if p.peek() == '0' && (p.peekAt(1) == 'x' || p.peekAt(1) == 'X') {
		p.next()
		p.next()
		start = p.pos
		base = 16
	}
	for !p.eof() && isDigitIn(p.peek(), base) {
		p.next()
	}
	digits := string(p.src[start:p.pos])
	if digits == "" {
		return 0, &SyntaxError{Line: pos.Line, Col: pos.Col, Message: "expected digits"}
	}
	v, err := strconv.ParseUint(digits, base, 24)
	if err != nil {
		return 0, &SyntaxError{Line: pos.Line, Col: pos.Col, Message: fmt.Sprintf("number %s does not fit in 24 bits", digits)}
	}
	return uint32(v), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDigitIn(r rune, base int) bool {
	if base == 16 {
		return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return isDigit(r)
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '/' || r == '-'
}
