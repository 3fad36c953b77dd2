package interfaces

import domaintypes "kentchat/internal/domain/types"

// KeyProvider locates key material for the packet codec: the public key of
// a remote peer and the private key of the local identity.
type KeyProvider interface {
	PeerPublicKey(peer domaintypes.Username) (domaintypes.PublicKeyPEM, error)
	LocalPrivateKey() (domaintypes.PrivateKeyPEM, error)
}

// Diagnostics receives non-fatal warnings such as signature mismatches or
// dropped packets. A btclog.Logger satisfies it.
type Diagnostics interface {
	Warnf(format string, params ...interface{})
}
