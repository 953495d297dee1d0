package booking

import (
	"testing"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitAvailability(t *testing.T) {
	items := []domain.AvailabilityItem{
		{Hour: 8, Available: true},
		{Hour: 11, Available: false},
		{Hour: 12, Available: true},
		{Hour: 9, Available: true},
		{Hour: 17, Available: false},
	}

	s := SplitAvailability(items)

	assert.Equal(t, []domain.Slot{
		{Hour: 8, Available: true, Label: "08:00"},
		{Hour: 11, Available: false, Label: "11:00"},
		{Hour: 9, Available: true, Label: "09:00"},
	}, s.Morning)
	assert.Equal(t, []domain.Slot{
		{Hour: 12, Available: true, Label: "12:00"},
		{Hour: 17, Available: false, Label: "17:00"},
	}, s.Afternoon)

	assert.Equal(t, []int{8, 9, 12}, s.Available())
}

func TestSplitAvailability_Empty(t *testing.T) {
	s := SplitAvailability(nil)
	assert.Empty(t, s.Morning)
	assert.Empty(t, s.Afternoon)
	assert.Empty(t, s.Available())
}

func TestSchedule_Slot(t *testing.T) {
	s := SplitAvailability([]domain.AvailabilityItem{{Hour: 11, Available: true}, {Hour: 12}})

	slot, ok := s.Slot(11)
	assert.True(t, ok)
	assert.True(t, slot.Available)

	slot, ok = s.Slot(12)
	assert.True(t, ok)
	assert.False(t, slot.Available)

	_, ok = s.Slot(15)
	assert.False(t, ok)
}
