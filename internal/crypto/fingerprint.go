package crypto

import (
	"crypto/x509"
	"encoding/hex"

	"golang.org/x/crypto/blake2s"
)

// Fingerprint returns a short hex fingerprint of a PEM public key.
//
// It hashes the DER (PKIX) encoding with BLAKE2s-256 and truncates to
// FingerprintBytes (20 hex chars), so PKCS#1 and PKIX encodings of the same
// key share a fingerprint.
func Fingerprint(publicKey []byte) (string, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	sum := blake2s.Sum256(der)
	return hex.EncodeToString(sum[:FingerprintBytes]), nil
}
