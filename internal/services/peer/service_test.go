package peer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/services/identity"
	"kentchat/internal/services/peer"
	"kentchat/internal/store"
)

const pass = "Correct-Horse-42"

type fakeRelay struct {
	mu   sync.Mutex
	keys map[domain.Username]domain.PublicKeyPEM
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{keys: make(map[domain.Username]domain.PublicKeyPEM)}
}

func (r *fakeRelay) PublishKey(_ context.Context, u domain.Username, k domain.PublicKeyPEM) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[u] = k
	return nil
}

func (r *fakeRelay) FetchKey(_ context.Context, u domain.Username) (domain.PublicKeyPEM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[u]
	if !ok {
		return nil, errors.New("relay get /keys: 404 Not Found")
	}
	return k, nil
}

func (r *fakeRelay) SendEnvelope(context.Context, domain.Envelope) error { return nil }

func (r *fakeRelay) FetchEnvelopes(context.Context, domain.Username, int) ([]domain.Envelope, error) {
	return nil, nil
}

func (r *fakeRelay) AckEnvelopes(context.Context, domain.Username, int) error { return nil }

func newService(t *testing.T, relay domain.RelayClient) (*peer.Service, *store.PeerFileStore, string) {
	t.Helper()
	home := t.TempDir()
	peers := store.NewPeerFileStore(home)
	svc := peer.New(
		"http://relay.test",
		store.NewIdentityFileStore(home),
		peers,
		store.NewAccountFileStore(home),
		relay,
	)
	return svc, peers, home
}

func TestPublish(t *testing.T) {
	relay := newFakeRelay()
	svc, _, home := newService(t, relay)

	id, fp, err := identity.New(store.NewIdentityFileStore(home)).GenerateIdentity(pass, 0)
	require.NoError(t, err)

	profile, err := svc.Publish(context.Background(), pass, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Username("alice"), profile.Username)
	assert.Equal(t, fp, profile.Fingerprint)
	assert.Equal(t, id.Keys.Public, relay.keys["alice"])

	saved, ok, err := store.NewAccountFileStore(home).LoadAccountProfile("http://relay.test")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile, saved)

	_, err = svc.Publish(context.Background(), pass, "bad@name")
	require.ErrorIs(t, err, store.ErrInvalidUsername)
}

func TestTrust_PinsOnFirstUse(t *testing.T) {
	relay := newFakeRelay()
	svc, peers, _ := newService(t, relay)
	ctx := context.Background()

	k1, err := crypto.GenerateKeyPair(crypto.DefaultRSABits)
	require.NoError(t, err)
	k2, err := crypto.GenerateKeyPair(crypto.DefaultRSABits)
	require.NoError(t, err)

	require.NoError(t, relay.PublishKey(ctx, "bob", k1.Public))
	first, err := svc.Trust(ctx, "bob", false)
	require.NoError(t, err)
	assert.NotZero(t, first.PinnedUTC)
	assert.Contains(t, first.String(), "Peer<bob fp=")

	again, err := svc.Trust(ctx, "bob", false)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Relay now serves a different key for bob.
	require.NoError(t, relay.PublishKey(ctx, "bob", k2.Public))
	_, err = svc.Trust(ctx, "bob", false)
	require.ErrorIs(t, err, store.ErrPeerKeyMismatch)

	pinned, _, err := peers.LoadPeer("bob")
	require.NoError(t, err)
	assert.Equal(t, k1.Public, pinned.PublicKey)

	replaced, err := svc.Trust(ctx, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, k2.Public, replaced.PublicKey)
}

func TestTrust_RejectsBadKeys(t *testing.T) {
	relay := newFakeRelay()
	svc, _, _ := newService(t, relay)
	ctx := context.Background()

	require.NoError(t, relay.PublishKey(ctx, "eve", domain.PublicKeyPEM("garbage")))
	_, err := svc.Trust(ctx, "eve", false)
	require.ErrorIs(t, err, crypto.ErrInvalidKey)

	_, err = svc.Trust(ctx, "nobody", false)
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	relay := newFakeRelay()
	svc, _, _ := newService(t, relay)
	ctx := context.Background()

	kp, err := crypto.GenerateKeyPair(crypto.DefaultRSABits)
	require.NoError(t, err)
	require.NoError(t, relay.PublishKey(ctx, "carol", kp.Public))

	unpinned, err := svc.Lookup(ctx, "carol")
	require.NoError(t, err)
	assert.Zero(t, unpinned.PinnedUTC)

	_, err = svc.Trust(ctx, "carol", false)
	require.NoError(t, err)
	pinned, err := svc.Lookup(ctx, "carol")
	require.NoError(t, err)
	assert.NotZero(t, pinned.PinnedUTC)
	assert.Equal(t, unpinned.Fingerprint, pinned.Fingerprint)
}
