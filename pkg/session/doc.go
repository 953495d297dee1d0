/*
Package session implements the session lifecycle of the gobarber client.

The Manager is the single source of truth for "is there a logged-in user, and who".
It restores the session persisted by a previous run, opens new sessions through the
API and closes them, writing every transition through to a ports.KeyValueStore before
publishing it.

# Lifecycle

	Booting --restore(found)--> Authenticated
	Booting --restore(absent/corrupt)--> Unauthenticated
	Unauthenticated --SignIn--> Authenticated
	Authenticated --SignOut--> Unauthenticated

A failed SignIn never changes the state. Consumers read and subscribe to the state
through a Consumer handle obtained from Manager.Consumer.
*/
package session
