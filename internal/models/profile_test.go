package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSlots(t *testing.T) {
	slots := []string{"02:00 PM", "09:00 AM", "10:30 AM", "not a time", "12:15 PM"}
	SortSlots(slots)
	assert.Equal(t, []string{"09:00 AM", "10:30 AM", "12:15 PM", "02:00 PM", "not a time"}, slots)
}

func TestInsertSlot(t *testing.T) {
	slots := []string{"09:00 AM", "02:00 PM"}

	slots = InsertSlot(slots, "11:00 AM")
	assert.Equal(t, []string{"09:00 AM", "11:00 AM", "02:00 PM"}, slots)

	// duplicates are dropped
	slots = InsertSlot(slots, "11:00 AM")
	assert.Equal(t, []string{"09:00 AM", "11:00 AM", "02:00 PM"}, slots)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusTrial, StatusActive, StatusExpired, StatusSkoolMember, StatusPromoAccess} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("paused"))
	assert.False(t, ValidStatus(""))
}
