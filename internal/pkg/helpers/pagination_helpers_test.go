package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		offset     uint64
		limit      int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 25, 50, 25},
		{"zero page falls back to first", 0, 10, 0, 10},
		{"negative page falls back to first", -5, 10, 0, 10},
		{"zero size falls back to default", 2, 0, 10, 10},
		{"oversized page size capped to default", 1, 500, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, int64(25), info.TotalItems)

	// An empty result set still reports one page.
	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 1, empty.CurrentPage)

	// A page past the end is clamped.
	clamped := NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, clamped.CurrentPage)
}
