// Package peer publishes our public key to the relay and pins the keys of
// the people we talk to.
//
// Keys are trusted on first use: the first key fetched for a username is
// pinned locally, and a later, different key is refused unless the caller
// explicitly asks to replace it.
package peer
