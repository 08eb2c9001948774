package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchState_Defaults(t *testing.T) {
	s := NewSearchState()
	assert.Equal(t, 15.0, s.Timeout)
	assert.Equal(t, 10.0, s.Radius)
	assert.False(t, s.Expired())

	s.Elapsed = 14.99
	assert.False(t, s.Expired())
	s.Elapsed = 15
	assert.True(t, s.Expired())
}

func TestWaitState_Defaults(t *testing.T) {
	w := NewWaitState()
	assert.Equal(t, 5.0, w.Duration)

	for range 4 {
		w.Elapsed += 1
	}
	assert.False(t, w.Expired())
	w.Elapsed += 1
	assert.True(t, w.Expired())
}
