package interfaces

import (
	"context"

	domaintypes "kentchat/internal/domain/types"
)

// RelayClient is how we talk to the central relay server, all with context.
type RelayClient interface {
	PublishKey(ctx context.Context, username domaintypes.Username, key domaintypes.PublicKeyPEM) error
	FetchKey(ctx context.Context, username domaintypes.Username) (domaintypes.PublicKeyPEM, error)

	SendEnvelope(ctx context.Context, envelope domaintypes.Envelope) error
	FetchEnvelopes(
		ctx context.Context,
		username domaintypes.Username,
		limit int,
	) ([]domaintypes.Envelope, error)
	AckEnvelopes(ctx context.Context, username domaintypes.Username, count int) error
}
