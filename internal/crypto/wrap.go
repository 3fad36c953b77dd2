package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
)

// WrapKey encrypts a symmetric key to the RSA public key in PEM form using
// OAEP with SHA-256. Randomness for the padding is drawn from r.
func WrapKey(r io.Reader, key, publicKey []byte) ([]byte, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), r, pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("wrap key: %w", err)
	}
	return wrapped, nil
}

// UnwrapKey recovers a symmetric key wrapped by WrapKey. It fails with
// ErrDecryptionFailed when the private key does not match or the padding is
// invalid, and with ErrInvalidKey when the private key cannot be parsed.
func UnwrapKey(wrapped, privateKey []byte) ([]byte, error) {
	priv, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	key, err := rsa.DecryptOAEP(sha256.New(), nil, priv, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap key", ErrDecryptionFailed)
	}
	return key, nil
}
