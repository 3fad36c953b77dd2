package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/protocol/packet"
	"kentchat/internal/services/keyring"
)

// Service sends and receives messages over the relay.
//
// High-level flow:
//   - Send: look up the recipient's pinned key, seal the JSON message into a
//     wire packet and post it via the relay.
//   - Receive: fetch envelopes, trust unknown senders on first use, open each
//     packet, then ack everything consumed, including dropped packets, so a
//     poisoned envelope can't block the queue.
type Service struct {
	ids   domain.IdentityStore
	peers domain.PeerStore
	trust domain.PeerService
	relay domain.RelayClient
	codec *packet.Codec
	diag  domain.Diagnostics
	now   func() time.Time
}

// New constructs a message Service. diag receives warnings about dropped
// or suspicious packets; nil uses the package logger.
func New(
	ids domain.IdentityStore,
	peers domain.PeerStore,
	trust domain.PeerService,
	relay domain.RelayClient,
	diag domain.Diagnostics,
) *Service {
	if diag == nil {
		diag = log
	}
	return &Service{
		ids:   ids,
		peers: peers,
		trust: trust,
		relay: relay,
		codec: packet.New(packet.WithDiagnostics(diag)),
		diag:  diag,
		now:   time.Now,
	}
}

// SendMessage seals msg for to and posts it to the relay.
func (s *Service) SendMessage(
	ctx context.Context,
	passphrase string,
	from domain.Username,
	to domain.Username,
	msg domain.Message,
) error {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return err
	}
	keys := keyring.New(id, s.peers)

	wire, err := s.Seal(keys, to, msg)
	if err != nil {
		return err
	}

	env := domain.Envelope{
		From:      from,
		To:        to,
		Packet:    wire,
		Timestamp: s.now().Unix(),
	}
	if err := s.relay.SendEnvelope(ctx, env); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	log.Debugf("Sent %s message to %s", msg.Type, to)
	return nil
}

// Seal marshals msg and composes a wire packet for to using keys.
func (s *Service) Seal(keys domain.KeyProvider, to domain.Username, msg domain.Message) (domain.WirePacket, error) {
	if msg.Type == "" {
		msg.Type = domain.MessageTypeChat
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	pub, err := keys.PeerPublicKey(to)
	if err != nil {
		return "", err
	}
	priv, err := keys.LocalPrivateKey()
	if err != nil {
		return "", err
	}
	return s.codec.Compose(string(body), pub, priv)
}

// ReceiveMessages fetches up to limit pending envelopes for me and opens
// them. Envelopes that can't be opened are reported and skipped.
func (s *Service) ReceiveMessages(
	ctx context.Context,
	passphrase string,
	me domain.Username,
	limit int,
) ([]domain.DecryptedMessage, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	keys := keyring.New(id, s.peers)

	envs, err := s.relay.FetchEnvelopes(ctx, me, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedMessage, 0, len(envs))
	consumed := 0
	for _, env := range envs {
		dm, err := s.OpenEnvelope(ctx, keys, env)
		switch {
		case err == nil:
			out = append(out, dm)
		case isDroppable(err):
			s.diag.Warnf("Dropping envelope from %s: %v", env.From, err)
		default:
			// Leave this and the rest queued.
			if ackErr := s.ack(ctx, me, consumed); ackErr != nil {
				err = errors.Join(err, ackErr)
			}
			return out, err
		}
		consumed++
	}

	if err := s.ack(ctx, me, consumed); err != nil {
		return out, err
	}
	return out, nil
}

// OpenEnvelope opens a single envelope with keys. If the sender has no
// pinned key yet, it is fetched and pinned first.
func (s *Service) OpenEnvelope(
	ctx context.Context,
	keys domain.KeyProvider,
	env domain.Envelope,
) (domain.DecryptedMessage, error) {
	pub, err := keys.PeerPublicKey(env.From)
	if errors.Is(err, keyring.ErrUnknownPeer) && s.trust != nil {
		p, terr := s.trust.Trust(ctx, env.From, false)
		if terr != nil {
			return domain.DecryptedMessage{}, fmt.Errorf("%w: %s: %v", keyring.ErrUnknownPeer, env.From, terr)
		}
		pub, err = p.PublicKey, nil
	}
	if err != nil {
		return domain.DecryptedMessage{}, err
	}
	priv, err := keys.LocalPrivateKey()
	if err != nil {
		return domain.DecryptedMessage{}, err
	}

	content, valid, err := s.codec.Parse(env.Packet, pub, priv)
	if err != nil {
		return domain.DecryptedMessage{}, err
	}
	if !valid {
		s.diag.Warnf("Signature from %s did not verify", env.From)
	}

	return domain.DecryptedMessage{
		From:           env.From,
		To:             env.To,
		Message:        DecodeMessage(content),
		Raw:            content,
		SignatureValid: valid,
		Timestamp:      env.Timestamp,
	}, nil
}

func (s *Service) ack(ctx context.Context, me domain.Username, n int) error {
	if n == 0 {
		return nil
	}
	if err := s.relay.AckEnvelopes(ctx, me, n); err != nil {
		return fmt.Errorf("ack %d messages: %w", n, err)
	}
	return nil
}

// DecodeMessage parses content as a Message, treating anything that isn't
// one as a plain chat body.
func DecodeMessage(content string) domain.Message {
	var m domain.Message
	if err := json.Unmarshal([]byte(content), &m); err != nil || m.Type == "" {
		return domain.Message{Type: domain.MessageTypeChat, Body: content}
	}
	return m
}

// isDroppable reports whether err is specific to one packet rather than to
// our own keys or the transport.
func isDroppable(err error) bool {
	return errors.Is(err, packet.ErrMalformedPacket) ||
		errors.Is(err, crypto.ErrDecryptionFailed) ||
		errors.Is(err, keyring.ErrUnknownPeer)
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
