/*
Package http implements the GoBarber REST API client.

It satisfies ports.SessionAPI and ports.BookingAPI. When a ports.TokenSource is
configured, every request carries the current session token as a bearer credential.
*/
package http
