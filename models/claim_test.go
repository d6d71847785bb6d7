package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ClaimStatus
		to      ClaimStatus
		allowed bool
	}{
		{ClaimStatusPending, ClaimStatusApproved, true},
		{ClaimStatusPending, ClaimStatusRejected, true},
		{ClaimStatusPending, ClaimStatusPaid, false},
		{ClaimStatusApproved, ClaimStatusPaid, true},
		{ClaimStatusApproved, ClaimStatusRejected, false},
		{ClaimStatusRejected, ClaimStatusPaid, false},
		{ClaimStatusRejected, ClaimStatusApproved, false},
		{ClaimStatusPaid, ClaimStatusApproved, false},
		{ClaimStatusApproved, ClaimStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
