package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookHash_Deterministic(t *testing.T) {
	h1, err := BookHash(identityBook())
	require.NoError(t, err)
	h2, err := BookHash(identityBook())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "BLAKE2b-256 hex digest")
}

func TestBookHash_SensitiveToContent(t *testing.T) {
	a := identityBook()
	b := identityBook()
	b.Defs[1].Node[0] = NewPair(NewPort(NUM, uint32(U24(8))), NewPort(VAR, 0))

	assert.NotEqual(t, MustBookHash(a), MustBookHash(b))
}

func TestHashWithDomain_Separation(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, hashWithDomain("hvm/a", data), hashWithDomain("hvm/b", data))
	assert.NotEqual(t, hashWithDomain("hvm/a", []byte("xy")), hashWithDomain("hvm/ax", []byte("y")))
}
