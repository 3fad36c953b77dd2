package store

import "errors"

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// encrypted identity has been modified or corrupted.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted identity")

	// ErrNoIdentity is returned by LoadIdentity before an identity exists.
	ErrNoIdentity = errors.New("no identity found; run init first")

	// ErrPeerKeyMismatch is returned when a different key is already pinned
	// for a username and replacement was not requested.
	ErrPeerKeyMismatch = errors.New("peer key does not match pinned key")

	// ErrInvalidUsername is returned for empty usernames or ones containing
	// reserved characters.
	ErrInvalidUsername = errors.New("invalid username")
)
