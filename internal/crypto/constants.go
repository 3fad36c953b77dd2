package crypto

const (
	// AESKeySize is the size of the one-time AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// DefaultRSABits is the modulus size used when none is configured.
	DefaultRSABits = 2048
	// MinRSABits is the smallest modulus accepted for generation or parsing.
	MinRSABits = 2048

	// FingerprintBytes is how much of the BLAKE2s digest a fingerprint keeps.
	FingerprintBytes = 10
)

// PEM block types understood by the parsers.
const (
	pemPublicKey     = "PUBLIC KEY"
	pemRSAPublicKey  = "RSA PUBLIC KEY"
	pemPrivateKey    = "PRIVATE KEY"
	pemRSAPrivateKey = "RSA PRIVATE KEY"
)
