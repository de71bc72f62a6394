package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontierFIFOAndDedup(t *testing.T) {
	f := newFrontier("a", 10)
	assert.True(t, f.enqueue("b"))
	assert.False(t, f.enqueue("a"), "already queued")
	assert.True(t, f.enqueue("c"))

	assert.Equal(t, []string{"a", "b"}, f.next(2))
	assert.False(t, f.enqueue("a"), "already visited")
	assert.Equal(t, []string{"c"}, f.next(5))
	assert.True(t, f.done())
}

func TestFrontierBudget(t *testing.T) {
	f := newFrontier("a", 2)
	assert.True(t, f.enqueue("b"))
	assert.False(t, f.enqueue("c"), "queue already holds the remaining budget")
	assert.Equal(t, 1, f.dropped)

	assert.Equal(t, []string{"a", "b"}, f.next(3))
	assert.Zero(t, f.remaining())
	assert.True(t, f.done())
	assert.Empty(t, f.next(1))
}

func TestFrontierQueueBoundTracksRemainingBudget(t *testing.T) {
	f := newFrontier("a", 3)
	assert.Equal(t, []string{"a"}, f.next(1))

	assert.True(t, f.enqueue("b"))
	assert.True(t, f.enqueue("c"))
	assert.False(t, f.enqueue("d"))
	assert.Len(t, f.queue, f.remaining())
}
