package interfaces

import (
	"context"

	domaintypes "kentchat/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(passphrase string, bits int) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
}

// PeerService publishes our key and pins the keys of others.
type PeerService interface {
	Publish(ctx context.Context, passphrase string, username domaintypes.Username) (domaintypes.AccountProfile, error)
	Trust(ctx context.Context, username domaintypes.Username, replace bool) (domaintypes.PeerIdentity, error)
	Lookup(ctx context.Context, username domaintypes.Username) (domaintypes.PeerIdentity, error)
}

// MessageService seals, sends, fetches and opens messages.
type MessageService interface {
	SendMessage(
		ctx context.Context,
		passphrase string,
		from domaintypes.Username,
		to domaintypes.Username,
		message domaintypes.Message,
	) error
	ReceiveMessages(
		ctx context.Context,
		passphrase string,
		me domaintypes.Username,
		limit int,
	) ([]domaintypes.DecryptedMessage, error)
}
