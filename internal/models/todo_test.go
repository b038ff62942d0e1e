package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Valid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.True(t, p.Valid(), p)
	}
	for _, p := range []Priority{"", "urgent", "HIGH"} {
		assert.False(t, p.Valid(), p)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{7, 3, 3},
		{5, 0, 0},
		{3, math.MaxInt, 1},
		{math.MaxInt64, math.MaxInt, 1},
		{math.MaxInt64, 2, math.MaxInt64/2 + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}
