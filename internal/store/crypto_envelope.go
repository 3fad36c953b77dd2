package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	keystoreFormatVersion = 2

	saltSize = 16
)

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// scryptParams are the key derivation costs used for new blobs.
type scryptParams struct{ N, R, P int }

func defaultScryptParams() scryptParams { return scryptParams{N: 1 << 15, R: 8, P: 1} }

// seal derives a key from passphrase and seals raw into a JSON blob. The
// salt doubles as associated data.
func seal(passphrase string, raw []byte, kdf scryptParams) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := deriveAEAD(passphrase, salt, kdf)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(blob{
		V:      keystoreFormatVersion,
		Salt:   salt,
		N:      kdf.N,
		R:      kdf.R,
		P:      kdf.P,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, raw, salt),
	})
}

// open reverses seal using a key derived from passphrase.
func open(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("decode keystore: %w", err)
	}
	if bl.V != keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}

	aead, err := deriveAEAD(passphrase, bl.Salt, scryptParams{N: bl.N, R: bl.R, P: bl.P})
	if err != nil {
		return nil, err
	}
	if len(bl.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func deriveAEAD(passphrase string, salt []byte, kdf scryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return chacha20poly1305.New(key)
}
