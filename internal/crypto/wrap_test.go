package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKey_UnwrapKey(t *testing.T) {
	a, b := fixtures(t)
	key, err := NewSymmetricKey(rand.Reader)
	require.NoError(t, err)

	wrapped, err := WrapKey(rand.Reader, key, a.Public)
	require.NoError(t, err)
	assert.Len(t, wrapped, DefaultRSABits/8)

	got, err := UnwrapKey(wrapped, a.Private)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = UnwrapKey(wrapped, b.Private)
	assert.ErrorIs(t, err, ErrDecryptionFailed, "wrong private key")
	_, err = UnwrapKey(flip(wrapped, 0), a.Private)
	assert.ErrorIs(t, err, ErrDecryptionFailed, "tampered wrap")
}

func TestWrapKey_Randomized(t *testing.T) {
	a, _ := fixtures(t)
	key := make([]byte, AESKeySize)

	w1, err := WrapKey(rand.Reader, key, a.Public)
	require.NoError(t, err)
	w2, err := WrapKey(rand.Reader, key, a.Public)
	require.NoError(t, err)
	assert.NotEqual(t, w1, w2, "OAEP wrapping of the same key differs between calls")
}

func TestWrapKey_InvalidKey(t *testing.T) {
	_, err := WrapKey(rand.Reader, make([]byte, AESKeySize), []byte("junk"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = UnwrapKey(make([]byte, 256), nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
