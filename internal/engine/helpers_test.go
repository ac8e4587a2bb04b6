package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/ir"
)

func compile(t *testing.T, src string) *ir.Book {
	t.Helper()
	book, err := compiler.Compile(src)
	require.NoError(t, err)
	return book
}

func readback(t *testing.T, res *Result, book *ir.Book) string {
	t.Helper()
	net, err := compiler.Readback(res.Net, book, res.Root)
	require.NoError(t, err, res.Net.Show())
	return net.Show()
}

func newTestNet(t *testing.T, nodes, vars uint32) *Net {
	t.Helper()
	net, err := NewNet(nodes, vars)
	require.NoError(t, err)
	return net
}
