package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeClaim(t *testing.T) {
	// (50000 - 20000 - 1000) * 0.8 = 23200
	assert.Equal(t, int64(23200), ComputeClaim(50000, 20000))
}

func TestComputeClaimRounds(t *testing.T) {
	// (1002 - 0 - 1000) * 0.8 = 1.6, rounds to 2
	assert.Equal(t, int64(2), ComputeClaim(1002, 0))
}

func TestComputeClaimFloorsAtZero(t *testing.T) {
	assert.Equal(t, int64(0), ComputeClaim(1000, 0))
	assert.Equal(t, int64(0), ComputeClaim(500, 0))
	assert.Equal(t, int64(0), ComputeClaim(5000, 10000))
	assert.Equal(t, int64(0), ComputeClaim(0, 0))
}
