// Package crypto exposes the primitives behind the KentChat packet protocol.
//
// Contents
//
//   - RSA key generation and PEM parsing (GenerateKeyPair, ParsePublicKey,
//     ParsePrivateKey)
//   - AES-256-GCM with a random nonce prepended to the output (EncryptAES,
//     DecryptAES)
//   - RSA-OAEP (SHA-256) wrapping of one-time symmetric keys (WrapKey,
//     UnwrapKey)
//   - RSASSA-PKCS1-v1_5 signatures over SHA-256 (Sign, Verify)
//   - Short BLAKE2s public-key fingerprints for display/logging (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Errors
//
// Failures are reported with the sentinel errors in errors.go, wrapped with
// context. Callers should match them with errors.Is:
//
//   - ErrInvalidKey: a key blob could not be parsed or is unsuitable.
//   - ErrDecryptionFailed: unwrapping or opening failed (wrong key or
//     corrupted bytes).
//   - ErrMalformedSignature: a signature has the wrong length for the key.
//
// A signature that is well-formed but does not match is not an error:
// Verify returns false.
package crypto
