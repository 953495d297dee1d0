package domain

import (
	"fmt"
	"time"
)

// Provider is a service provider (barber) listed by the API.
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Avatar returns the avatar URL or the given fallback.
func (p Provider) Avatar(fallback string) string {
	if p.AvatarURL != "" {
		return p.AvatarURL
	}
	return fallback
}

// AvailabilityItem is one hour of a provider's day as reported by the API.
type AvailabilityItem struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

// Slot is an AvailabilityItem ready for display.
type Slot struct {
	Hour      int
	Available bool
	Label     string // "HH:00"
}

// NewSlot builds the display slot for an availability item.
func NewSlot(item AvailabilityItem) Slot {
	return Slot{
		Hour:      item.Hour,
		Available: item.Available,
		Label:     fmt.Sprintf("%02d:00", item.Hour),
	}
}

// AppointmentRequest is the body of POST /appointments.
type AppointmentRequest struct {
	ProviderID string    `json:"provider_id"`
	Date       time.Time `json:"date"`
}

// Appointment is a booked slot as returned by the API.
type Appointment struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	UserID     string    `json:"user_id"`
	Date       time.Time `json:"date"`
}
