package packet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btclog"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
)

// Separator joins the three segments of a wire packet.
const Separator = "|"

const segments = 3

// ErrMalformedPacket is returned when a wire packet does not have exactly
// three segments or a segment is not valid base64.
var ErrMalformedPacket = errors.New("malformed packet")

// Packet is the decoded, still encrypted form of a wire packet.
type Packet struct {
	Message   []byte // nonce || ciphertext || tag
	Key       []byte // RSA-OAEP wrapped AES key
	Signature []byte // PKCS#1 v1.5 signature over the plaintext
}

// String renders p in wire form.
func (p Packet) String() string {
	return strings.Join([]string{
		crypto.B64(p.Message),
		crypto.B64(p.Key),
		crypto.B64(p.Signature),
	}, Separator)
}

// Decode splits and base64-decodes a wire packet without touching any key
// material. The relay uses it to reject obvious garbage.
func Decode(wire domain.WirePacket) (Packet, error) {
	parts := strings.Split(string(wire), Separator)
	if len(parts) != segments {
		return Packet{}, fmt.Errorf("%w: got %d segments, want %d", ErrMalformedPacket, len(parts), segments)
	}

	var out [segments][]byte
	for i, s := range parts {
		b, err := crypto.FromB64(s)
		if err != nil {
			return Packet{}, fmt.Errorf("%w: segment %d: %v", ErrMalformedPacket, i, err)
		}
		out[i] = b
	}
	return Packet{Message: out[0], Key: out[1], Signature: out[2]}, nil
}

// Option configures a Codec.
type Option func(*Codec)

// WithRandom sets the source of symmetric keys, nonces and OAEP padding.
// The default is crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithDiagnostics sets the sink that receives warnings about packets that
// parse but are suspicious, such as malformed signatures.
func WithDiagnostics(d domain.Diagnostics) Option {
	return func(c *Codec) {
		if d != nil {
			c.diag = d
		}
	}
}

// Codec composes and parses wire packets.
type Codec struct {
	rand io.Reader
	diag domain.Diagnostics
}

// New returns a Codec using crypto/rand and a disabled diagnostic sink
// unless overridden by opts.
func New(opts ...Option) *Codec {
	c := &Codec{
		rand: rand.Reader,
		diag: btclog.Disabled,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose encrypts content to recipientPublicKey and signs it with
// senderPrivateKey. Both keys are PEM encoded.
func (c *Codec) Compose(content string, recipientPublicKey, senderPrivateKey []byte) (domain.WirePacket, error) {
	key, err := crypto.NewSymmetricKey(c.rand)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(key)

	plaintext := []byte(content)
	sealed, err := crypto.EncryptAESWithRand(c.rand, plaintext, key)
	if err != nil {
		return "", err
	}
	wrapped, err := crypto.WrapKey(c.rand, key, recipientPublicKey)
	if err != nil {
		return "", err
	}
	sig, err := crypto.Sign(plaintext, senderPrivateKey)
	if err != nil {
		return "", err
	}

	return domain.WirePacket(Packet{Message: sealed, Key: wrapped, Signature: sig}.String()), nil
}

// Parse decrypts a wire packet with recipientPrivateKey and checks its
// signature against senderPublicKey. valid reports whether the signature
// matched; a mismatch is not an error.
func (c *Codec) Parse(wire domain.WirePacket, senderPublicKey, recipientPrivateKey []byte) (content string, valid bool, err error) {
	p, err := Decode(wire)
	if err != nil {
		return "", false, err
	}

	key, err := crypto.UnwrapKey(p.Key, recipientPrivateKey)
	if err != nil {
		return "", false, err
	}
	defer crypto.Wipe(key)
	if len(key) != crypto.AESKeySize {
		return "", false, fmt.Errorf("%w: unwrapped key is %d bytes, want %d",
			crypto.ErrDecryptionFailed, len(key), crypto.AESKeySize)
	}

	plaintext, err := crypto.DecryptAES(p.Message, key)
	if err != nil {
		return "", false, err
	}

	valid, err = crypto.Verify(plaintext, p.Signature, senderPublicKey)
	switch {
	case errors.Is(err, crypto.ErrMalformedSignature):
		c.diag.Warnf("Discarding signature on %d-byte packet: %v", len(wire), err)
		valid = false
	case err != nil:
		return "", false, err
	}
	return string(plaintext), valid, nil
}

var defaultCodec = New()

// Compose is Codec.Compose with the default codec.
func Compose(content string, recipientPublicKey, senderPrivateKey []byte) (domain.WirePacket, error) {
	return defaultCodec.Compose(content, recipientPublicKey, senderPrivateKey)
}

// Parse is Codec.Parse with the default codec.
func Parse(wire domain.WirePacket, senderPublicKey, recipientPrivateKey []byte) (string, bool, error) {
	return defaultCodec.Parse(wire, senderPublicKey, recipientPrivateKey)
}
