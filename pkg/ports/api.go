package ports

import (
	"context"

	"github.com/aretw0/gobarber/pkg/domain"
)

// SessionAPI is the remote login endpoint (POST sessions).
type SessionAPI interface {
	CreateSession(ctx context.Context, creds domain.Credentials) (domain.SessionResponse, error)
}

// BookingAPI covers the provider and appointment endpoints.
type BookingAPI interface {
	// Providers lists every service provider (GET providers).
	Providers(ctx context.Context) ([]domain.Provider, error)

	// DayAvailability returns the hourly availability of a provider for one day.
	// Month is 1-based.
	DayAvailability(ctx context.Context, providerID string, year, month, day int) ([]domain.AvailabilityItem, error)

	// CreateAppointment books an appointment (POST appointments).
	CreateAppointment(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error)
}

// TokenSource supplies the bearer token of the current session, if any.
type TokenSource interface {
	Token() (string, bool)
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() (string, bool)

// Token calls f.
func (f TokenFunc) Token() (string, bool) { return f() }
