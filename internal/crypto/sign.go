package crypto

import (
	stdcrypto "crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Sign returns an RSASSA-PKCS1-v1_5 signature over the SHA-256 digest of
// data. The result is deterministic for a given (data, key).
func Sign(data, privateKey []byte) ([]byte, error) {
	priv, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(nil, priv, stdcrypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig, nil
}

// Verify reports whether signature is a valid signature over data by the
// holder of publicKey. A mismatch returns false with a nil error; only an
// unusable key (ErrInvalidKey) or a signature of the wrong length
// (ErrMalformedSignature) produce an error.
func Verify(data, signature, publicKey []byte) (bool, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}
	if len(signature) != pub.Size() {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSignature, len(signature), pub.Size())
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(pub, stdcrypto.SHA256, digest[:], signature) == nil, nil
}
