package crypto

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"kentchat/internal/domain"
)

var (
	fixtureOnce sync.Once
	fixtureA    domain.KeyPair
	fixtureB    domain.KeyPair
	fixtureErr  error
)

// fixtures returns two independent 2048-bit key pairs, generated once per
// test binary.
func fixtures(t testing.TB) (domain.KeyPair, domain.KeyPair) {
	t.Helper()
	fixtureOnce.Do(func() {
		fixtureA, fixtureErr = GenerateKeyPair(DefaultRSABits)
		if fixtureErr != nil {
			return
		}
		fixtureB, fixtureErr = GenerateKeyPair(DefaultRSABits)
	})
	require.NoError(t, fixtureErr)
	return fixtureA, fixtureB
}

// withRandom swaps the package random source for the duration of the test.
func withRandom(t *testing.T, r io.Reader) {
	t.Helper()
	prev := randReader
	randReader = r
	t.Cleanup(func() { randReader = prev })
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
