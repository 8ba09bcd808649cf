package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/pkg/ptr"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCalculateNinetyMinutes(t *testing.T) {
	q, err := Calculate(t0, t0.Add(90*time.Minute), ptr.Ptr(100.0))
	require.NoError(t, err)

	assert.Equal(t, 150.0, q.Cost)
	assert.InDelta(t, 1.5, q.DurationHours, 1e-9)
	assert.True(t, q.RateConfigured)
}

func TestCalculateWithoutRate(t *testing.T) {
	q, err := Calculate(t0, t0.Add(3*time.Hour), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.Cost)
	assert.InDelta(t, 3.0, q.DurationHours, 1e-9)
	assert.False(t, q.RateConfigured)
}

func TestCalculateZeroDuration(t *testing.T) {
	q, err := Calculate(t0, t0, ptr.Ptr(40.0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.Cost)
}

func TestCalculateRoundsToCents(t *testing.T) {
	// 10 минут по 10/час = 1.666...
	q, err := Calculate(t0, t0.Add(10*time.Minute), ptr.Ptr(10.0))
	require.NoError(t, err)
	assert.Equal(t, 1.67, q.Cost)
}

func TestCalculateNegativeDuration(t *testing.T) {
	_, err := Calculate(t0, t0.Add(-time.Second), ptr.Ptr(10.0))
	assert.ErrorIs(t, err, ErrNegativeDuration)
}
