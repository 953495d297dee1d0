/*
Package booking implements the appointment flow of the client: listing providers,
deriving a provider's day schedule and booking a slot.

A day's availability is split in two tiers: morning (hours before noon) and
afternoon (noon onwards), each slot labelled "HH:00".
*/
package booking
