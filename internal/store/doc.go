// Package store provides file-based persistence for KentChat's local state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON under the user's configured home directory. All
// methods are concurrency-safe via internal locking and every write goes
// through a temp file and rename, so a crash never leaves a half-written
// file behind.
//
// The package includes stores for:
//   - The local RSA identity, encrypted at rest (IdentityFileStore)
//   - Pinned peer public keys (PeerFileStore)
//   - Per-relay account profiles (AccountFileStore)
package store
