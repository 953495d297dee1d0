/*
Package domain contains the core domain models of the gobarber client.

It defines the entities exchanged with the GoBarber API and the state owned by the
session manager. This package is kept pure and free of external I/O, following
Hexagonal Architecture principles.

# Key Entities

  - Credentials: The transient email/password pair used to open a session.
  - Session: The durable proof of authentication (token) plus the user profile.
  - UserProfile: An opaque record returned by the API, passed through untouched.
  - Snapshot: What consumers observe (auth state, user, loading flag).
  - Provider, AvailabilityItem, Slot, Appointment: The booking vocabulary.
*/
package domain
