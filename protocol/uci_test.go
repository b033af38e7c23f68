package protocol_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunp/knightfall/engine"
	"github.com/arjunp/knightfall/protocol"
)

func run(t *testing.T, commands string) string {
	t.Helper()
	h := engine.New(engine.Options{TTSizeBytes: 1 << 20})
	var out bytes.Buffer
	protocol.UCI(h, strings.NewReader(commands), &out)
	return out.String()
}

func TestUCIHandshake(t *testing.T) {
	out := run(t, "uci\nquit\n")
	require.Contains(t, out, "id name Knightfall")
	require.Contains(t, out, "id author")
	require.Contains(t, out, "uciok\n")
}

func TestIsReady(t *testing.T) {
	out := run(t, "isready\nquit\n")
	require.Contains(t, out, "readyok\n")
}

func TestPositionMovesThenGoDepthReturnsBestmove(t *testing.T) {
	out := run(t, "position startpos moves e2e4 e7e5\ngo depth 2\nquit\n")
	require.Contains(t, out, "bestmove ")
	require.Contains(t, out, "info depth 1")
	require.Contains(t, out, "info depth 2")
}

func TestPositionFEN(t *testing.T) {
	out := run(t, "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 moves h1h2\ngo depth 1\nquit\n")
	require.Contains(t, out, "bestmove ")
}

// TestGoDepthDefaultsWhenNoOptionGiven checks that a bare "go" still
// terminates with a bestmove line rather than hanging indefinitely.
func TestGoDepthDefaultsWhenNoOptionGiven(t *testing.T) {
	out := run(t, "position startpos\ngo\nquit\n")
	require.Contains(t, out, "bestmove ")
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	out := run(t, "bananas\nisready\nquit\n")
	require.Equal(t, "readyok\n", out)
}
