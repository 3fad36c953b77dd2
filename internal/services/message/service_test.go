package message_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/services/identity"
	"kentchat/internal/services/keyring"
	"kentchat/internal/services/message"
	"kentchat/internal/services/peer"
	"kentchat/internal/store"
)

const pass = "Correct-Horse-42"

// memRelay is an in-memory domain.RelayClient shared by all test users.
type memRelay struct {
	mu     sync.Mutex
	keys   map[domain.Username]domain.PublicKeyPEM
	queues map[domain.Username][]domain.Envelope
	acked  map[domain.Username]int
	ackErr error
}

func newMemRelay() *memRelay {
	return &memRelay{
		keys:   make(map[domain.Username]domain.PublicKeyPEM),
		queues: make(map[domain.Username][]domain.Envelope),
		acked:  make(map[domain.Username]int),
	}
}

func (r *memRelay) PublishKey(_ context.Context, u domain.Username, k domain.PublicKeyPEM) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[u] = k
	return nil
}

func (r *memRelay) FetchKey(_ context.Context, u domain.Username) (domain.PublicKeyPEM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[u]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return k, nil
}

func (r *memRelay) SendEnvelope(_ context.Context, env domain.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues[env.To] = append(r.queues[env.To], env)
	return nil
}

func (r *memRelay) FetchEnvelopes(_ context.Context, u domain.Username, limit int) ([]domain.Envelope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.queues[u]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	return append([]domain.Envelope(nil), q...), nil
}

func (r *memRelay) AckEnvelopes(_ context.Context, u domain.Username, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ackErr != nil {
		return r.ackErr
	}
	r.queues[u] = r.queues[u][n:]
	r.acked[u] += n
	return nil
}

type recorder struct {
	mu    sync.Mutex
	warns []string
}

func (r *recorder) Warnf(format string, params ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, params...))
}

type user struct {
	name  domain.Username
	id    domain.Identity
	peers *store.PeerFileStore
	msgs  *message.Service
	diag  *recorder
}

func newUser(t *testing.T, relay *memRelay, name domain.Username) *user {
	t.Helper()
	home := t.TempDir()
	ids := store.NewIdentityFileStore(home)
	peers := store.NewPeerFileStore(home)

	id, _, err := identity.New(ids).GenerateIdentity(pass, 0)
	require.NoError(t, err)

	peerSvc := peer.New("mem://", ids, peers, store.NewAccountFileStore(home), relay)
	_, err = peerSvc.Publish(context.Background(), pass, name)
	require.NoError(t, err)

	diag := &recorder{}
	return &user{
		name:  name,
		id:    id,
		peers: peers,
		msgs:  message.New(ids, peers, peerSvc, relay, diag),
		diag:  diag,
	}
}

func TestSendReceive(t *testing.T) {
	relay := newMemRelay()
	alice := newUser(t, relay, "alice")
	bob := newUser(t, relay, "bob")
	ctx := context.Background()

	// Alice must know Bob's key before she can write to him.
	err := alice.msgs.SendMessage(ctx, pass, "alice", "bob", domain.Message{Body: "hi"})
	require.ErrorIs(t, err, keyring.ErrUnknownPeer)

	_, err = peer.New("mem://", nil, alice.peers, nil, relay).Trust(ctx, "bob", false)
	require.NoError(t, err)

	require.NoError(t, alice.msgs.SendMessage(ctx, pass, "alice", "bob", domain.Message{Body: "hi bob"}))
	require.NoError(t, alice.msgs.SendMessage(ctx, pass, "alice", "bob",
		domain.Message{Type: domain.MessageTypeTunnel, Orig: "e1fcba2d"}))

	got, err := bob.msgs.ReceiveMessages(ctx, pass, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Username("alice"), got[0].From)
	assert.True(t, got[0].SignatureValid)
	assert.Equal(t, domain.Message{Type: domain.MessageTypeChat, Body: "hi bob"}, got[0].Message)
	assert.Equal(t, domain.Message{Type: domain.MessageTypeTunnel, Orig: "e1fcba2d"}, got[1].Message)
	assert.JSONEq(t, `{"type":"tunnel","orig":"e1fcba2d"}`, got[1].Raw)

	// Bob pinned Alice on first contact.
	_, ok, err := bob.peers.LoadPeer("alice")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 2, relay.acked["bob"])
	assert.Empty(t, relay.queues["bob"])
	assert.Empty(t, bob.diag.warns)
}

func TestReceive_ForgedSender(t *testing.T) {
	relay := newMemRelay()
	newUser(t, relay, "alice")
	bob := newUser(t, relay, "bob")
	mallory := newUser(t, relay, "mallory")
	ctx := context.Background()

	// Bob already knows Alice.
	_, err := peer.New("mem://", nil, bob.peers, nil, relay).Trust(ctx, "alice", false)
	require.NoError(t, err)

	// Mallory seals to Bob with her own key and posts it as Alice.
	_, err = peer.New("mem://", nil, mallory.peers, nil, relay).Trust(ctx, "bob", false)
	require.NoError(t, err)
	wire, err := mallory.msgs.Seal(keyring.New(mallory.id, mallory.peers), "bob", domain.Message{Body: "send money"})
	require.NoError(t, err)
	require.NoError(t, relay.SendEnvelope(ctx, domain.Envelope{From: "alice", To: "bob", Packet: wire}))

	got, err := bob.msgs.ReceiveMessages(ctx, pass, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].SignatureValid)
	assert.Equal(t, "send money", got[0].Message.Body)
	assert.NotEmpty(t, bob.diag.warns)
}

func TestReceive_DropsBadPackets(t *testing.T) {
	relay := newMemRelay()
	alice := newUser(t, relay, "alice")
	bob := newUser(t, relay, "bob")
	newUser(t, relay, "carol")
	ctx := context.Background()

	_, err := peer.New("mem://", nil, alice.peers, nil, relay).Trust(ctx, "carol", false)
	require.NoError(t, err)
	_, err = peer.New("mem://", nil, alice.peers, nil, relay).Trust(ctx, "bob", false)
	require.NoError(t, err)

	// Sealed for Carol but delivered to Bob.
	misdirected, err := alice.msgs.Seal(keyring.New(alice.id, alice.peers), "carol", domain.Message{Body: "x"})
	require.NoError(t, err)

	require.NoError(t, relay.SendEnvelope(ctx, domain.Envelope{From: "alice", To: "bob", Packet: "only|two"}))
	require.NoError(t, relay.SendEnvelope(ctx, domain.Envelope{From: "alice", To: "bob", Packet: misdirected}))
	require.NoError(t, relay.SendEnvelope(ctx, domain.Envelope{From: "ghost", To: "bob", Packet: "a|b|c"}))
	require.NoError(t, alice.msgs.SendMessage(ctx, pass, "alice", "bob", domain.Message{Body: "real"}))

	got, err := bob.msgs.ReceiveMessages(ctx, pass, "bob", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "real", got[0].Message.Body)
	assert.Len(t, bob.diag.warns, 3)
	assert.Equal(t, 4, relay.acked["bob"], "dropped envelopes are acked too")
}

func TestReceive_Limit(t *testing.T) {
	relay := newMemRelay()
	alice := newUser(t, relay, "alice")
	bob := newUser(t, relay, "bob")
	ctx := context.Background()

	_, err := peer.New("mem://", nil, alice.peers, nil, relay).Trust(ctx, "bob", false)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, alice.msgs.SendMessage(ctx, pass, "alice", "bob", domain.Message{Body: fmt.Sprint(i)}))
	}

	got, err := bob.msgs.ReceiveMessages(ctx, pass, "bob", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, relay.queues["bob"], 1)

	_, err = bob.msgs.ReceiveMessages(ctx, "Wrong-Horse-42!", "bob", 0)
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestReceive_FatalErrorKeepsAckFailure(t *testing.T) {
	relay := newMemRelay()
	alice := newUser(t, relay, "alice")
	bob := newUser(t, relay, "bob")
	ctx := context.Background()

	_, err := peer.New("mem://", nil, alice.peers, nil, relay).Trust(ctx, "bob", false)
	require.NoError(t, err)
	require.NoError(t, alice.msgs.SendMessage(ctx, pass, "alice", "bob", domain.Message{Body: "first"}))

	// A corrupt pinned key is a local problem, not a bad packet.
	require.NoError(t, bob.peers.SavePeer(domain.PeerIdentity{
		Username:  "eve",
		PublicKey: domain.PublicKeyPEM("corrupt"),
	}, false))
	wire, err := alice.msgs.Seal(keyring.New(alice.id, alice.peers), "bob", domain.Message{Body: "second"})
	require.NoError(t, err)
	require.NoError(t, relay.SendEnvelope(ctx, domain.Envelope{From: "eve", To: "bob", Packet: wire}))

	relay.ackErr = errors.New("relay unavailable")
	got, err := bob.msgs.ReceiveMessages(ctx, pass, "bob", 0)
	require.ErrorIs(t, err, crypto.ErrInvalidKey)
	require.ErrorIs(t, err, relay.ackErr)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Message.Body)
	assert.Len(t, relay.queues["bob"], 2, "nothing was acked")
}
