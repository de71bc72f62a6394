package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorpusString(t *testing.T) {
	var c Corpus
	assert.True(t, c.Empty())
	assert.Equal(t, "", c.String())

	c.Append("https://example.com/a", "# A\nfirst")
	c.Append("https://example.com/empty", "   ")
	c.Append("https://example.com/b", "second")

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, c.SourceURLs())
	assert.Equal(t,
		"=== Source: https://example.com/a ===\n# A\nfirst\n\n=== Source: https://example.com/b ===\nsecond\n",
		c.String())
}
