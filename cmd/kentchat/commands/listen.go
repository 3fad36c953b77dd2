package commands

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"kentchat/internal/app"
	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/protocol/packet"
	"kentchat/internal/services/keyring"
	"kentchat/internal/transport"
)

// listen: stream envelopes from the relay websocket and open them as they
// arrive, acking each one by id after it is handled. When the relay closes
// the feed (it does so for subscribers that fall behind) we resubscribe and
// pick up whatever is still queued.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Wait for messages and print them as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			a := appCtx
			me, err := a.Username()
			if err != nil {
				return err
			}
			id, err := a.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			l := &listener{
				cmd:  cmd,
				app:  a,
				me:   me,
				keys: keyring.New(id, a.PeerStore),
				seen: make(map[uint64]struct{}),
			}
			printf(cmd, "Listening as %s on %s (Ctrl-C to stop)\n", me, a.Config.RelayURL)

			ctx := cmd.Context()
			for {
				err := l.follow(ctx)
				switch {
				case ctx.Err() != nil:
					return nil
				case errors.Is(err, transport.ErrClosed):
					cmdsLog().Infof("Relay closed the feed, resubscribing")
				default:
					return err
				}
			}
		},
	}
}

type listener struct {
	cmd  *cobra.Command
	app  *app.App
	me   domain.Username
	keys domain.KeyProvider
	seen map[uint64]struct{}
}

// follow handles envelopes from one subscription until it ends.
func (l *listener) follow(ctx context.Context) error {
	conn, err := l.app.Relay.Subscribe(ctx, l.me)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		b, err := conn.Receive(ctx)
		if err != nil {
			return err
		}

		var env domain.Envelope
		if err := json.Unmarshal(b, &env); err != nil {
			cmdsLog().Warnf("Ignoring unreadable frame: %v", err)
			continue
		}
		if _, dup := l.seen[env.ID]; dup {
			continue
		}
		if err := l.handle(env); err != nil {
			return err
		}
		l.seen[env.ID] = struct{}{}
	}
}

func (l *listener) handle(env domain.Envelope) error {
	ctx, cancel := requestContextFor(l.cmd, l.app)
	defer cancel()

	m, err := l.app.Messages.OpenEnvelope(ctx, l.keys, env)
	switch {
	case err == nil:
		printMessage(l.cmd, m)
	case errors.Is(err, packet.ErrMalformedPacket),
		errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, keyring.ErrUnknownPeer):
		cmdsLog().Warnf("Dropping envelope from %s: %v", env.From, err)
	default:
		return err
	}
	return l.app.Relay.AckEnvelopeIDs(ctx, l.me, env.ID)
}
