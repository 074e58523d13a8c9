package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeAvailability(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		booked     int
		wantSpots  int
		wantStatus AvailabilityStatus
	}{
		{"empty class", 10, 0, 10, AvailabilityAvailable},
		{"plenty of spots", 10, 5, 5, AvailabilityAvailable},
		{"just above low threshold", 10, 7, 3, AvailabilityAvailable},
		{"exactly at low threshold", 10, 8, 2, AvailabilityLow},
		{"one spot left", 10, 9, 1, AvailabilityLow},
		{"full", 10, 10, 0, AvailabilityFull},
		{"overbooked clamps to zero", 10, 12, 0, AvailabilityFull},
		{"zero capacity", 0, 0, 0, AvailabilityFull},
		{"negative capacity", -1, 0, 0, AvailabilityFull},
		{"small class low threshold", 5, 4, 1, AvailabilityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAvailability(tt.capacity, tt.booked)
			assert.Equal(t, tt.wantSpots, got.SpotsRemaining)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestInstanceKeyEncode(t *testing.T) {
	key := NewInstanceKey(42, time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "42_2026-09-08", key.Encode(true))
	assert.Equal(t, "42", key.Encode(false))
	assert.Equal(t, "42_2026-09-08", key.String())
}

func TestInstanceKeyEquality(t *testing.T) {
	d := time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC)

	a := NewInstanceKey(1, d)
	b := NewInstanceKey(1, d)
	assert.Equal(t, a, b)

	counts := map[InstanceKey]int{a: 3}
	assert.Equal(t, 3, counts[b])
}
