package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// NewSymmetricKey reads a fresh one-time AES-256 key from r.
func NewSymmetricKey(r io.Reader) ([]byte, error) {
	key := make([]byte, AESKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("read symmetric key: %w", err)
	}
	return key, nil
}

// EncryptAES encrypts plaintext with AES-256-GCM under key using a random
// nonce from crypto/rand.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func EncryptAES(plaintext, key []byte) ([]byte, error) {
	return EncryptAESWithRand(random(), plaintext, key)
}

// EncryptAESWithRand is EncryptAES with the nonce drawn from r.
func EncryptAESWithRand(r io.Reader, plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, AESNonceSize, AESNonceSize+len(plaintext)+AESTagSize)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptAES reverses EncryptAES. A wrong key or any modified byte yields
// ErrDecryptionFailed.
func DecryptAES(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: %w: got %d bytes", ErrDecryptionFailed, ErrCiphertextTooShort, len(ciphertext))
	}

	nonce := ciphertext[:AESNonceSize]
	plaintext, err := gcm.Open(nil, nonce, ciphertext[AESNonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
