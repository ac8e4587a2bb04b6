package ir

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Binary Book layout, little-endian, 4-byte aligned:
//
//	u32 def_count
//	per definition:
//	  u32 node_count, node_count x u64 node pairs, u32 root port
//	  u32 rbag_count, rbag_count x u64 redex pairs
//	  u32 vars, u32 safe (0|1)
//	  u32 name_len, name bytes, zero padding to a 4-byte boundary
//
// The layout is position independent: a foreign runtime can bulk-copy each
// definition's pairs into its own arena.

// MarshalBinary serializes the Book for a foreign native runtime.
func (b *Book) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Defs)))
	for i := range b.Defs {
		def := &b.Defs[i]
		if def.Vars < 0 || def.Vars > MaxAddr {
			return nil, fmt.Errorf("marshal book: definition %q: invalid vars count %d", def.Name, def.Vars)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(def.Node)))
		for _, p := range def.Node {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(p))
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(def.Root))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(def.Rbag)))
		for _, p := range def.Rbag {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(p))
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(def.Vars))
		buf = binary.LittleEndian.AppendUint32(buf, b2u(def.Safe))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(def.Name)))
		buf = append(buf, def.Name...)
		for len(buf)%4 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

// ErrTruncatedBook is returned when a buffer ends inside a definition.
var ErrTruncatedBook = errors.New("book buffer truncated")

type bookReader struct {
	buf []byte
	off int
}

func (r *bookReader) u32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, ErrTruncatedBook
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *bookReader) pairs(n uint32) ([]Pair, error) {
	if uint64(r.off)+uint64(n)*8 > uint64(len(r.buf)) {
		return nil, ErrTruncatedBook
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair(binary.LittleEndian.Uint64(r.buf[r.off:]))
		r.off += 8
	}
	return out, nil
}

// UnmarshalBook decodes a buffer produced by MarshalBinary.
func UnmarshalBook(data []byte) (*Book, error) {
	r := &bookReader{buf: data}
	count, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("unmarshal book: %w", err)
	}
	book := &Book{}
	for i := uint32(0); i < count; i++ {
		def, err := r.def()
		if err != nil {
			return nil, fmt.Errorf("unmarshal book: definition %d: %w", i, err)
		}
		book.Defs = append(book.Defs, def)
	}
	if r.off != len(data) {
		return nil, fmt.Errorf("unmarshal book: %d trailing bytes", len(data)-r.off)
	}
	return book, nil
}

func (r *bookReader) def() (Def, error) {
	var def Def
	nodeLen, err := r.u32()
	if err != nil {
		return def, err
	}
	if def.Node, err = r.pairs(nodeLen); err != nil {
		return def, err
	}
	root, err := r.u32()
	if err != nil {
		return def, err
	}
	def.Root = Port(root)
	rbagLen, err := r.u32()
	if err != nil {
		return def, err
	}
	if def.Rbag, err = r.pairs(rbagLen); err != nil {
		return def, err
	}
	vars, err := r.u32()
	if err != nil {
		return def, err
	}
	def.Vars = int(vars)
	safe, err := r.u32()
	if err != nil {
		return def, err
	}
	def.Safe = safe != 0
	nameLen, err := r.u32()
	if err != nil {
		return def, err
	}
	end := r.off + int(nameLen)
	if nameLen > uint32(len(r.buf)) || end > len(r.buf) {
		return def, ErrTruncatedBook
	}
	def.Name = string(r.buf[r.off:end])
	r.off = end
	for r.off%4 != 0 {
		if r.off >= len(r.buf) {
			return def, ErrTruncatedBook
		}
		r.off++
	}
	return def, nil
}
