package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"

	"kentchat/internal/domain"
)

// randReader, when set, replaces crypto/rand for key generation and AES
// nonces.
var randReader io.Reader

func random() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// GenerateKeyPair returns a new RSA key pair with a modulus of the given size,
// PEM-encoded as PKIX (public) and PKCS#8 (private).
func GenerateKeyPair(bits int) (domain.KeyPair, error) {
	if bits < MinRSABits {
		return domain.KeyPair{}, fmt.Errorf("%w: %d-bit modulus, want at least %d", ErrInvalidKey, bits, MinRSABits)
	}
	priv, err := rsa.GenerateKey(random(), bits)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}

	pub, err := EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return domain.KeyPair{}, err
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("marshal private key: %w", err)
	}
	defer Wipe(der)

	return domain.KeyPair{
		Public:  pub,
		Private: pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: der}),
	}, nil
}

// EncodePublicKey PEM-encodes pub as a PKIX "PUBLIC KEY" block.
func EncodePublicKey(pub *rsa.PublicKey) (domain.PublicKeyPEM, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: der}), nil
}

// ParsePublicKey decodes a PEM "PUBLIC KEY" (PKIX) or "RSA PUBLIC KEY"
// (PKCS#1) block.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	var pub *rsa.PublicKey
	switch block.Type {
	case pemPublicKey:
		k, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		rk, ok := k.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an RSA public key", ErrInvalidKey, k)
		}
		pub = rk
	case pemRSAPublicKey:
		pub, err = x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKey, block.Type)
	}

	if pub.N.BitLen() < MinRSABits {
		return nil, fmt.Errorf("%w: %d-bit modulus, want at least %d", ErrInvalidKey, pub.N.BitLen(), MinRSABits)
	}
	return pub, nil
}

// ParsePrivateKey decodes a PEM "PRIVATE KEY" (PKCS#8) or "RSA PRIVATE KEY"
// (PKCS#1) block.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	var priv *rsa.PrivateKey
	switch block.Type {
	case pemPrivateKey:
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an RSA private key", ErrInvalidKey, k)
		}
		priv = rk
	case pemRSAPrivateKey:
		priv, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrInvalidKey, block.Type)
	}

	if priv.N.BitLen() < MinRSABits {
		return nil, fmt.Errorf("%w: %d-bit modulus, want at least %d", ErrInvalidKey, priv.N.BitLen(), MinRSABits)
	}
	return priv, nil
}

// ValidateKeyPair reports whether kp holds a parseable private key whose
// public half matches kp.Public.
func ValidateKeyPair(kp domain.KeyPair) error {
	priv, err := ParsePrivateKey(kp.Private)
	if err != nil {
		return err
	}
	pub, err := ParsePublicKey(kp.Public)
	if err != nil {
		return err
	}
	if !priv.PublicKey.Equal(pub) {
		return fmt.Errorf("%w: public key does not match private key", ErrInvalidKey)
	}
	return nil
}

func decodePEM(data []byte) (*pem.Block, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}
	return block, nil
}
