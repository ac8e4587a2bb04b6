package ir

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityBook is `@id = (a a)` and `@main = r & @id ~ (7 r)`, built by hand.
func identityBook() *Book {
	return &Book{Defs: []Def{
		{
			Name: "id",
			Safe: true,
			Root: NewPort(CON, 0),
			Node: []Pair{NewPair(NewPort(VAR, 0), NewPort(VAR, 0))},
			Vars: 1,
		},
		{
			Name: "main",
			Safe: true,
			Root: NewPort(VAR, 0),
			Rbag: []Pair{NewPair(NewPort(REF, 0), NewPort(CON, 0))},
			Node: []Pair{NewPair(NewPort(NUM, uint32(U24(7))), NewPort(VAR, 0))},
			Vars: 1,
		},
	}}
}

func TestBook_Lookup(t *testing.T) {
	b := identityBook()

	id, ok := b.Lookup("main")
	require.True(t, ok)
	assert.Equal(t, uint32(1), id)
	assert.Equal(t, "main", b.Name(id))

	_, ok = b.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "", b.Name(99))
}

func TestBook_MarshalBinaryLayout(t *testing.T) {
	b := &Book{Defs: []Def{{
		Name: "main",
		Root: NewPort(NUM, 3),
		Node: []Pair{NewPair(NewPort(ERA, 0), NewPort(ERA, 0))},
		Vars: 0,
	}}}

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	le := binary.LittleEndian
	assert.Equal(t, uint32(1), le.Uint32(data[0:]), "def count")
	assert.Equal(t, uint32(1), le.Uint32(data[4:]), "node count")
	assert.Equal(t, uint64(b.Defs[0].Node[0]), le.Uint64(data[8:]), "first node pair")
	assert.Equal(t, uint32(b.Defs[0].Root), le.Uint32(data[16:]), "entry port follows the nodes")
	assert.Equal(t, uint32(0), le.Uint32(data[20:]), "rbag count")
	assert.Equal(t, uint32(4), le.Uint32(data[32:]), "name length")
	assert.Equal(t, "main", string(data[36:40]))
	assert.Len(t, data, 40)
	assert.Zero(t, len(data)%4)
}

func TestBook_BinaryRoundTrip(t *testing.T) {
	b := identityBook()

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	got, err := UnmarshalBook(data)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestBook_BinaryRoundTripPadsNames(t *testing.T) {
	b := &Book{Defs: []Def{{Name: "odd"}, {Name: "fivec"}}}

	data, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Zero(t, len(data)%4)

	got, err := UnmarshalBook(data)
	require.NoError(t, err)
	assert.Equal(t, "odd", got.Defs[0].Name)
	assert.Equal(t, "fivec", got.Defs[1].Name)
}

func TestUnmarshalBook_Truncated(t *testing.T) {
	data, err := identityBook().MarshalBinary()
	require.NoError(t, err)

	for _, n := range []int{0, 3, 8, 17, len(data) - 1} {
		_, err := UnmarshalBook(data[:n])
		assert.ErrorIs(t, err, ErrTruncatedBook, "prefix of %d bytes", n)
	}
}

func TestUnmarshalBook_TrailingBytes(t *testing.T) {
	data, err := identityBook().MarshalBinary()
	require.NoError(t, err)

	_, err = UnmarshalBook(append(data, 0, 0, 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}
