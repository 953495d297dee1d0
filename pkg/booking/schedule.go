package booking

import "github.com/aretw0/gobarber/pkg/domain"

// Noon is the first afternoon hour.
const Noon = 12

// Schedule is a provider's day split into morning and afternoon slots.
type Schedule struct {
	Morning   []domain.Slot
	Afternoon []domain.Slot
}

// SplitAvailability derives the two-tier schedule from the API list.
// Input order is preserved inside each tier.
func SplitAvailability(items []domain.AvailabilityItem) Schedule {
	var s Schedule
	for _, item := range items {
		slot := domain.NewSlot(item)
		if item.Hour < Noon {
			s.Morning = append(s.Morning, slot)
		} else {
			s.Afternoon = append(s.Afternoon, slot)
		}
	}
	return s
}

// Slot finds the slot for hour.
func (s Schedule) Slot(hour int) (domain.Slot, bool) {
	tier := s.Afternoon
	if hour < Noon {
		tier = s.Morning
	}
	for _, slot := range tier {
		if slot.Hour == hour {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

// Available returns the bookable hours, morning first.
func (s Schedule) Available() []int {
	var hours []int
	for _, tier := range [][]domain.Slot{s.Morning, s.Afternoon} {
		for _, slot := range tier {
			if slot.Available {
				hours = append(hours, slot.Hour)
			}
		}
	}
	return hours
}
