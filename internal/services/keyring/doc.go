// Package keyring locates the key material the packet codec needs: the
// unlocked local private key and the pinned public keys of peers.
package keyring
