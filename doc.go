/*
Package gobarber is the client core of the GoBarber appointment service: it keeps the
user's session across restarts and talks to the GoBarber HTTP API.

# Concept

A Session Manager owns the in-memory session (bearer token and user profile) and its
durable copy in a key-value store. On start it restores the persisted session once; SignIn
persists before it publishes; SignOut always clears memory even when storage cleanup fails.
The store is a port, so the same manager runs over an in-memory map, a JSON file, SQLite
or Redis.

# Usage

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	client, err := gobarber.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Start(ctx); err != nil {
		log.Fatal(err)
	}

	err = client.Session.SignIn(ctx, domain.Credentials{Email: "me@example.com", Password: "secret"})
	if err != nil {
		log.Fatal(err)
	}

	providers, err := client.Booking.Providers(ctx)

# Packages

  - pkg/session: Session Manager and the Consumer handle.
  - pkg/booking: providers, day schedule and appointments.
  - pkg/ports: KeyValueStore, SessionAPI and BookingAPI contracts.
  - pkg/adapters: memory, file, sqlite and redis stores; the HTTP API client.
  - pkg/persistence/middleware: logging and Prometheus decorators for stores.
*/
package gobarber
