// Package packet implements the KentChat secure packet: the hybrid
// encryption and signature envelope that wraps every application message
// before it crosses an untrusted transport.
//
// # Wire format
//
// A packet is three standard (padded) base64 segments joined by '|', always
// in this order:
//
//	b64(nonce || ciphertext || tag) | b64(OAEP(key)) | b64(signature)
//
// # Compose
//
//  1. Draw a fresh 32-byte AES key from the codec's random source.
//  2. Seal the UTF-8 content with AES-256-GCM under that key.
//  3. Wrap the key to the recipient's RSA public key (OAEP, SHA-256).
//  4. Sign the plaintext with the sender's RSA private key.
//
// # Parse
//
// Parse reverses Compose. Structural problems fail with ErrMalformedPacket,
// key unwrap and AEAD failures with crypto.ErrDecryptionFailed. A signature
// that does not verify is not an error: the content is returned with
// valid=false so the caller decides whether to trust it. Malformed
// signatures are also reported to the codec's diagnostic sink.
//
// A Codec holds no per-packet state and is safe for concurrent use.
package packet
