package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSet_EvictsOldest(t *testing.T) {
	s := newSeenSet(2)
	s.Add("a")
	s.Add("b")
	s.Add("a") // ya presente, no cambia el orden
	s.Add("c")

	assert.False(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.True(t, s.Contains("c"))
	assert.Equal(t, 2, s.Len())
}

func TestSeenSet_DisabledIsNoop(t *testing.T) {
	s := newSeenSet(0)
	assert.Nil(t, s)
	s.Add("a")
	assert.False(t, s.Contains("a"))
	assert.Zero(t, s.Len())
}

func TestSeenSet_IgnoresEmptyID(t *testing.T) {
	s := newSeenSet(4)
	s.Add("")
	assert.False(t, s.Contains(""))
	assert.Zero(t, s.Len())
}
