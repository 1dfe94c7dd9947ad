package simplify

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader serves a fixed payload in caller-chosen chunk sizes so tests can
// place chunk boundaries anywhere, including mid-frame.
type chunkReader struct {
	data   string
	sizes  []int
	offset int
	call   int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.offset >= len(r.data) {
		return 0, io.EOF
	}
	size := len(r.data) - r.offset
	if r.call < len(r.sizes) && r.sizes[r.call] < size {
		size = r.sizes[r.call]
	}
	r.call++
	n := copy(p, r.data[r.offset:r.offset+size])
	r.offset += n
	return n, nil
}

func frame(delta string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`+"\n", delta)
}

func TestRelayStreamPreservesOrder(t *testing.T) {
	payload := frame("A") + frame("B") + frame("C") + "data: [DONE]\n"

	// Try every chunk size from byte-at-a-time up to the whole payload, so
	// frame boundaries land in all possible positions.
	for size := 1; size <= len(payload); size++ {
		sizes := make([]int, 0, len(payload)/size+1)
		for covered := 0; covered < len(payload); covered += size {
			sizes = append(sizes, size)
		}
		var out strings.Builder
		err := RelayStream(&chunkReader{data: payload, sizes: sizes}, &out, nil)
		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, "ABC", out.String(), "chunk size %d", size)
	}
}

func TestRelayStreamStopsAtSentinel(t *testing.T) {
	payload := frame("keep") + "data: [DONE]\n" + frame("dropped")

	var out strings.Builder
	err := RelayStream(strings.NewReader(payload), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "keep", out.String())
}

func TestRelayStreamIgnoresKeepAlives(t *testing.T) {
	payload := ": ping\n" +
		"event: message\n" +
		"data: not-json\n" +
		frame("ok") +
		"data:\n" +
		"data: [DONE]\n"

	var out strings.Builder
	err := RelayStream(strings.NewReader(payload), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.String())
}

func TestRelayStreamDeltaWithEmbeddedNewline(t *testing.T) {
	// JSON escapes the newline, so the frame stays one physical line.
	payload := frame("line1\nline2") + "data: [DONE]\n"

	var out strings.Builder
	err := RelayStream(strings.NewReader(payload), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", out.String())
}

func TestRelayStreamClosesOnExhaustionWithoutSentinel(t *testing.T) {
	var out strings.Builder
	err := RelayStream(strings.NewReader(frame("tail")), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "tail", out.String())
}

func TestRelayStreamDropsUnterminatedFragment(t *testing.T) {
	// No trailing newline: the final fragment never becomes a complete frame.
	payload := frame("done") + `data: {"choices":[{"delta":{"content":"partial"}}]}`

	var out strings.Builder
	err := RelayStream(strings.NewReader(payload), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", out.String())
}

type failingReader struct{ after string }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.after != "" {
		n := copy(p, r.after)
		r.after = r.after[n:]
		return n, nil
	}
	return 0, errors.New("connection reset")
}

func TestRelayStreamPropagatesReadError(t *testing.T) {
	var out strings.Builder
	err := RelayStream(&failingReader{after: frame("x")}, &out, nil)
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, "x", out.String())
}

func TestRelayStreamFlushesPerDelta(t *testing.T) {
	flushes := 0
	var out strings.Builder
	err := RelayStream(strings.NewReader(frame("a")+frame("b")+"data: [DONE]\n"), &out, func() { flushes++ })
	require.NoError(t, err)
	assert.Equal(t, 2, flushes)
}
