package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/gobarber/pkg/booking"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// DefaultAvatar is shown for users and providers without an avatar.
const DefaultAvatar = "https://api.adorable.io/avatars/56/gobarber.png"

// NewRenderer returns a function that renders markdown using glamour.
// Falls back to the raw markdown when no terminal renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// SessionMarkdown describes the current session.
func SessionMarkdown(snap domain.Snapshot, claims *domain.TokenClaims, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Session\n\n")

	switch {
	case snap.Loading:
		b.WriteString("_Restoring session..._\n")
		return b.String()
	case !snap.Authenticated():
		b.WriteString("Not signed in. Run `gobarber login`.\n")
		return b.String()
	}

	u := snap.User
	fmt.Fprintf(&b, "Signed in as **%s**", orDash(u.Name))
	if u.Email != "" {
		fmt.Fprintf(&b, " (%s)", u.Email)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- ID: `%s`\n", orDash(u.ID))
	fmt.Fprintf(&b, "- Avatar: %s\n", u.Avatar(DefaultAvatar))

	if claims != nil && !claims.ExpiresAt.IsZero() {
		if claims.ExpiresAt.After(now) {
			fmt.Fprintf(&b, "- Token expires: %s (in %s)\n", claims.ExpiresAt.Format(time.RFC3339), claims.ExpiresAt.Sub(now).Round(time.Minute))
		} else {
			fmt.Fprintf(&b, "- Token expired: %s\n", claims.ExpiresAt.Format(time.RFC3339))
		}
	}
	return b.String()
}

// ProvidersMarkdown lists the service providers as a table.
func ProvidersMarkdown(providers []domain.Provider) string {
	var b strings.Builder
	b.WriteString("# Providers\n\n")
	if len(providers) == 0 {
		b.WriteString("No providers available.\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Avatar |\n|---|---|---|\n")
	for _, p := range providers {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", p.ID, escapeCell(p.Name), p.Avatar(DefaultAvatar))
	}
	return b.String()
}

// ScheduleMarkdown renders the morning and afternoon slots of a day.
func ScheduleMarkdown(providerID string, day time.Time, s booking.Schedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nProvider `%s`\n\n", day.Format("Monday, 02 January 2006"), providerID)
	writeSlots(&b, "Morning", s.Morning)
	writeSlots(&b, "Afternoon", s.Afternoon)
	return b.String()
}

func writeSlots(b *strings.Builder, title string, slots []domain.Slot) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(slots) == 0 {
		b.WriteString("No hours.\n\n")
		return
	}
	for _, s := range slots {
		if s.Available {
			fmt.Fprintf(b, "- **%s**\n", s.Label)
		} else {
			fmt.Fprintf(b, "- ~~%s~~\n", s.Label)
		}
	}
	b.WriteString("\n")
}

// AppointmentMarkdown confirms a created appointment.
func AppointmentMarkdown(appt domain.Appointment) string {
	return fmt.Sprintf("# Appointment booked\n\n- ID: `%s`\n- Provider: `%s`\n- Date: %s\n",
		orDash(appt.ID), appt.ProviderID, appt.Date.Format("02/01/2006 15:04"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
