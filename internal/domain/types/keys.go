package types

import "fmt"

// PublicKeyPEM is a PEM-encoded RSA public key.
//
// It marshals to JSON as the PEM text rather than base64 of the bytes.
type PublicKeyPEM []byte

// MarshalText returns the PEM text.
func (k PublicKeyPEM) MarshalText() ([]byte, error) { return []byte(k), nil }

// UnmarshalText copies the PEM text.
func (k *PublicKeyPEM) UnmarshalText(b []byte) error {
	*k = append((*k)[:0], b...)
	return nil
}

// PrivateKeyPEM is a PEM-encoded RSA private key.
type PrivateKeyPEM []byte

// MarshalText returns the PEM text.
func (k PrivateKeyPEM) MarshalText() ([]byte, error) { return []byte(k), nil }

// UnmarshalText copies the PEM text.
func (k *PrivateKeyPEM) UnmarshalText(b []byte) error {
	*k = append((*k)[:0], b...)
	return nil
}

// KeyPair is an asymmetric key pair used for both key wrapping and signing.
// It is immutable after creation.
type KeyPair struct {
	Public  PublicKeyPEM  `json:"public_key"`
	Private PrivateKeyPEM `json:"private_key"`
}

// PeerIdentity is the public key attached to a remote connection.
type PeerIdentity struct {
	Username    Username     `json:"username"`
	PublicKey   PublicKeyPEM `json:"public_key"`
	Fingerprint Fingerprint  `json:"fingerprint"`
	PinnedUTC   int64        `json:"pinned_utc"`
}

// String renders the peer with a short fingerprint prefix for logs.
func (p PeerIdentity) String() string {
	fp := p.Fingerprint.String()
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fmt.Sprintf("Peer<%s fp=%s>", p.Username, fp)
}
