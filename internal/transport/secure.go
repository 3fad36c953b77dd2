package transport

import (
	"context"
	"errors"
	"sync"

	"kentchat/internal/domain"
	"kentchat/internal/protocol/packet"
)

// ErrNoPeerIdentity is returned when sealing or opening on a SecureConn
// before a peer identity has been attached.
var ErrNoPeerIdentity = errors.New("no peer identity attached")

// SecureConn seals content for an attached peer before it crosses Conn and
// opens what the peer sends back.
type SecureConn struct {
	Conn

	codec *packet.Codec
	local domain.PrivateKeyPEM

	mu   sync.RWMutex
	peer *domain.PeerIdentity
}

// NewSecureConn wraps conn. local is our private key; a nil codec uses
// packet.New().
func NewSecureConn(conn Conn, local domain.PrivateKeyPEM, codec *packet.Codec) *SecureConn {
	if codec == nil {
		codec = packet.New()
	}
	return &SecureConn{Conn: conn, codec: codec, local: local}
}

// SetPeer attaches the identity of the remote end.
func (c *SecureConn) SetPeer(p domain.PeerIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peer = &p
}

// Peer returns the attached peer identity, if any.
func (c *SecureConn) Peer() (domain.PeerIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.peer == nil {
		return domain.PeerIdentity{}, false
	}
	return *c.peer, true
}

// SendMessage seals content for the peer and sends it.
func (c *SecureConn) SendMessage(ctx context.Context, content string) error {
	p, ok := c.Peer()
	if !ok {
		return ErrNoPeerIdentity
	}
	wire, err := c.codec.Compose(content, p.PublicKey, c.local)
	if err != nil {
		return err
	}
	return c.Send(ctx, []byte(wire))
}

// ReceiveMessage receives one packet and opens it. valid reports whether
// the peer's signature verified.
func (c *SecureConn) ReceiveMessage(ctx context.Context) (content string, valid bool, err error) {
	p, ok := c.Peer()
	if !ok {
		return "", false, ErrNoPeerIdentity
	}
	b, err := c.Receive(ctx)
	if err != nil {
		return "", false, err
	}
	content, valid, err = c.codec.Parse(domain.WirePacket(b), p.PublicKey, c.local)
	if err == nil && !valid {
		log.Warnf("Unverified message from %v", p)
	}
	return content, valid, err
}
