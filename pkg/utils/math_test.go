package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsqrt(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{24, 4},
		{25, 5},
		{1 << 20, 1 << 10},
		{(1 << 20) - 1, (1 << 10) - 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Isqrt(tt.n), "Isqrt(%d)", tt.n)
	}
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, 0, Abs(0))
}
