package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeadersSynthesizesAllSections(t *testing.T) {
	got := NormalizeHeaders("Some summary text only.")
	assert.Equal(t,
		"1. Summary\nSome summary text only.\n\n2. Main Points\nN/A\n\n3. Helpful Definitions\nN/A",
		got)
}

func TestNormalizeHeadersCanonicalInputUnchanged(t *testing.T) {
	in := "1. Summary\nAn overview.\n\n2. Main Points\n- one\n- two\n\n3. Helpful Definitions\n- **Term**: meaning"
	assert.Equal(t, in, NormalizeHeaders(in))
}

func TestNormalizeHeadersIdempotent(t *testing.T) {
	inputs := []string{
		"Some summary text only.",
		"**Summary**: Overview here.\n\nmain points:\n- a\n\n3) Helpful Definitions\nN/A",
		"1. Summary\nAn overview.\n\n2. Main Points\n- one\n\n3. Helpful Definitions\nN/A",
	}
	for _, in := range inputs {
		once := NormalizeHeaders(in)
		assert.Equal(t, once, NormalizeHeaders(once), "input %q", in)
	}
}

func TestNormalizeHeadersRewritesDecoratedVariants(t *testing.T) {
	in := "**Summary**\nAn overview.\n\nMAIN POINTS:\n- one\n\n3) helpful definitions\n- **Term**: meaning"
	got := NormalizeHeaders(in)
	assert.Contains(t, got, "1. Summary\nAn overview.")
	assert.Contains(t, got, "2. Main Points\n- one")
	assert.Contains(t, got, "3. Helpful Definitions\n- **Term**: meaning")
}

func TestNormalizeHeadersMovesTrailingContentToBody(t *testing.T) {
	got := NormalizeHeaders("Summary: The gist.\n\n2. Main Points\n- one\n\n3. Helpful Definitions\nN/A")
	assert.Contains(t, got, "1. Summary\nThe gist.")
}

func TestNormalizeHeadersDoesNotMatchProseMentions(t *testing.T) {
	// A sentence starting with the header word but continuing without a
	// separator is body text, not a header.
	in := "1. Summary\nSummary of the ruling follows below.\n\n2. Main Points\n- one\n\n3. Helpful Definitions\nN/A"
	assert.Equal(t, in, NormalizeHeaders(in))
}

func TestSegmentSections(t *testing.T) {
	bodies := segmentSections("1. Summary\nA.\n\n2. Main Points\n- b\n- c\n\n3. Helpful Definitions\n- **D**: d")
	assert.Equal(t, "A.", bodies[0])
	assert.Equal(t, "- b\n- c", bodies[1])
	assert.Equal(t, "- **D**: d", bodies[2])
}
