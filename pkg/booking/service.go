package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/gobarber/internal/logging"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/ports"
)

var (
	// ErrProviderRequired is returned when no provider is selected.
	ErrProviderRequired = errors.New("provider is required")

	// ErrInvalidHour is returned for hours outside 0-23.
	ErrInvalidHour = errors.New("hour must be between 0 and 23")

	// ErrSlotUnavailable is returned when booking an hour the schedule marks as taken.
	ErrSlotUnavailable = errors.New("slot is not available")
)

// Service drives the booking endpoints.
type Service struct {
	api    ports.BookingAPI
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a booking service on top of the API.
func NewService(api ports.BookingAPI, opts ...Option) *Service {
	s := &Service{
		api:    api,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Providers lists the service providers.
func (s *Service) Providers(ctx context.Context) ([]domain.Provider, error) {
	providers, err := s.api.Providers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

// DaySchedule fetches a provider's availability for the calendar day of day.
func (s *Service) DaySchedule(ctx context.Context, providerID string, day time.Time) (Schedule, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return Schedule{}, ErrProviderRequired
	}
	items, err := s.api.DayAvailability(ctx, providerID, day.Year(), int(day.Month()), day.Day())
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to load availability: %w", err)
	}
	return SplitAvailability(items), nil
}

// AppointmentDate is day at hour:00:00 in day's location.
func AppointmentDate(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// Book creates an appointment with providerID on day at hour:00.
func (s *Service) Book(ctx context.Context, providerID string, day time.Time, hour int) (domain.Appointment, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return domain.Appointment{}, ErrProviderRequired
	}
	if hour < 0 || hour > 23 {
		return domain.Appointment{}, ErrInvalidHour
	}

	date := AppointmentDate(day, hour)
	appt, err := s.api.CreateAppointment(ctx, domain.AppointmentRequest{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		s.logger.Warn("Appointment creation failed", "provider_id", providerID, "date", date, "err", err)
		return domain.Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.logger.Info("Appointment created", "provider_id", providerID, "date", date, "appointment_id", appt.ID)
	return appt, nil
}

// BookSlot checks hour against a freshly loaded schedule before booking it.
func (s *Service) BookSlot(ctx context.Context, providerID string, day time.Time, hour int) (domain.Appointment, error) {
	schedule, err := s.DaySchedule(ctx, providerID, day)
	if err != nil {
		return domain.Appointment{}, err
	}
	slot, ok := schedule.Slot(hour)
	if !ok || !slot.Available {
		return domain.Appointment{}, fmt.Errorf("%w: %02d:00", ErrSlotUnavailable, hour)
	}
	return s.Book(ctx, providerID, day, hour)
}
