package flashsale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slotHours = []int{0, 9, 12, 15, 18, 21}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestResolveSlotMidAfternoon(t *testing.T) {
	// 14:30 falls in the 12:00 slot, next boundary 15:00
	slot, err := ResolveSlot(at(14, 30), slotHours)
	require.NoError(t, err)
	assert.Equal(t, 12, slot.Hour)
	assert.Equal(t, 15, slot.NextHour)
	assert.False(t, slot.CarriedOver)
	assert.Equal(t, 30*time.Minute, slot.Remaining)
}

func TestResolveSlotWrapsToTomorrow(t *testing.T) {
	// 23:00 is in the 21:00 slot; the next boundary is 00:00 tomorrow
	slot, err := ResolveSlot(at(23, 0), slotHours)
	require.NoError(t, err)
	assert.Equal(t, 21, slot.Hour)
	assert.Equal(t, 0, slot.NextHour)
	assert.Equal(t, 15, slot.NextAt.Day())
	assert.Equal(t, time.Hour, slot.Remaining)
}

func TestResolveSlotCarriedOverBeforeFirstBoundary(t *testing.T) {
	// with boundaries starting at 9, an early-morning visit still shows
	// yesterday's last window but flags it
	hours := []int{9, 12, 15}
	slot, err := ResolveSlot(at(7, 0), hours)
	require.NoError(t, err)
	assert.Equal(t, 15, slot.Hour)
	assert.True(t, slot.CarriedOver)
	assert.Equal(t, 9, slot.NextHour)
	assert.Equal(t, 2*time.Hour, slot.Remaining)
}

func TestResolveSlotExactBoundary(t *testing.T) {
	slot, err := ResolveSlot(at(15, 0), slotHours)
	require.NoError(t, err)
	assert.Equal(t, 15, slot.Hour)
	assert.Equal(t, 18, slot.NextHour)
}

func TestResolveSlotNoSlots(t *testing.T) {
	_, err := ResolveSlot(at(10, 0), nil)
	assert.ErrorIs(t, err, ErrNoSlots)
}

func TestCountdown(t *testing.T) {
	slot := &Slot{Remaining: 2*time.Hour + 29*time.Minute + 5*time.Second}
	h, m, s := slot.Countdown()
	assert.Equal(t, 2, h)
	assert.Equal(t, 29, m)
	assert.Equal(t, 5, s)
}

func TestParseSlots(t *testing.T) {
	hours, err := ParseSlots("21, 0,9,12, 9 ,15,18")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 9, 12, 15, 18, 21}, hours, "sorted and deduplicated")
}

func TestParseSlotsRejectsBadHours(t *testing.T) {
	_, err := ParseSlots("9,24")
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = ParseSlots("9,-1")
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = ParseSlots("9,noon")
	assert.Error(t, err)

	_, err = ParseSlots(" , ")
	assert.ErrorIs(t, err, ErrNoSlots)
}
