package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsDetectsIntersection(t *testing.T) {
	cases := []struct {
		name     string
		s, e     string
		reqS     string
		reqE     string
		expected bool
	}{
		{"existing covers start", "09:00:00", "10:30:00", "10:00:00", "11:00:00", true},
		{"existing covers end", "10:30:00", "12:00:00", "10:00:00", "11:00:00", true},
		{"existing inside request", "10:15:00", "10:45:00", "10:00:00", "11:00:00", true},
		{"request inside existing", "09:00:00", "12:00:00", "10:00:00", "11:00:00", true},
		{"identical windows", "10:00:00", "11:00:00", "10:00:00", "11:00:00", true},
		{"disjoint before", "08:00:00", "09:00:00", "10:00:00", "11:00:00", false},
		{"disjoint after", "12:00:00", "13:00:00", "10:00:00", "11:00:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.s, tc.e, tc.reqS, tc.reqE))
		})
	}
}

func TestOverlapsBackToBackWindows(t *testing.T) {
	// Half-open intervals: a booking ending exactly when the next starts does
	// not conflict, in either order.
	assert.False(t, Overlaps("10:00:00", "11:30:00", "11:30:00", "13:00:00"))
	assert.False(t, Overlaps("11:30:00", "13:00:00", "10:00:00", "11:30:00"))
}
