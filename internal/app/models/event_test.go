package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCapacity(t *testing.T) {
	unlimited := &Event{}
	assert.True(t, unlimited.HasCapacity(0))
	assert.True(t, unlimited.HasCapacity(100000))

	capacity := 2
	limited := &Event{Capacity: &capacity}
	assert.True(t, limited.HasCapacity(0))
	assert.True(t, limited.HasCapacity(1))
	assert.False(t, limited.HasCapacity(2))
	assert.False(t, limited.HasCapacity(3))
}
