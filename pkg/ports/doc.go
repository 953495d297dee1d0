/*
Package ports defines the driven ports (interfaces) of the gobarber client.

These interfaces decouple the session manager and the booking service from concrete
storage backends and from the HTTP transport.

# Key Interfaces

  - KeyValueStore: Durable string storage with batched variants (AsyncStorage-like).
  - SessionAPI: The remote login endpoint.
  - BookingAPI: The remote provider and appointment endpoints.
  - TokenSource: Supplies the bearer token of the current session to the transport.
*/
package ports
