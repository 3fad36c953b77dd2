package keyring

import (
	"errors"
	"fmt"

	"kentchat/internal/domain"
)

// ErrUnknownPeer is returned when no key is pinned for a peer.
var ErrUnknownPeer = errors.New("unknown peer")

// Keyring is a domain.KeyProvider over an unlocked identity and a peer store.
type Keyring struct {
	id    domain.Identity
	peers domain.PeerStore
}

// New returns a Keyring for the unlocked identity id.
func New(id domain.Identity, peers domain.PeerStore) *Keyring {
	return &Keyring{id: id, peers: peers}
}

// PeerPublicKey returns the key pinned for peer.
func (k *Keyring) PeerPublicKey(peer domain.Username) (domain.PublicKeyPEM, error) {
	p, ok, err := k.peers.LoadPeer(peer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, peer)
	}
	return p.PublicKey, nil
}

// LocalPrivateKey returns the private half of the unlocked identity.
func (k *Keyring) LocalPrivateKey() (domain.PrivateKeyPEM, error) {
	return k.id.Keys.Private, nil
}

var _ domain.KeyProvider = (*Keyring)(nil)
