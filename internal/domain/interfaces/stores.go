package interfaces

import domaintypes "kentchat/internal/domain/types"

// IdentityStore persists your long-term key pair.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// PeerStore pins the public keys of remote peers.
type PeerStore interface {
	SavePeer(peer domaintypes.PeerIdentity, replace bool) error
	LoadPeer(username domaintypes.Username) (domaintypes.PeerIdentity, bool, error)
	ListPeers() ([]domaintypes.PeerIdentity, error)
}
