package crypto

import "errors"

var (
	// ErrInvalidKey is returned when a key blob cannot be parsed or used.
	ErrInvalidKey = errors.New("invalid key")

	// ErrDecryptionFailed is returned when unwrapping a key or opening a
	// ciphertext fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedSignature is returned when a signature cannot belong to
	// the given key.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrCiphertextTooShort is returned when a ciphertext cannot hold a
	// nonce and a tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)
