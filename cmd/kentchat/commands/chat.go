package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"kentchat/internal/app"
	"kentchat/internal/domain"
	"kentchat/internal/protocol/packet"
	"kentchat/internal/services/message"
	"kentchat/internal/transport"
)

// chat: a direct session with one peer over a websocket, without the relay
// queue. One side runs with --listen, the other with --connect.
func chatCmd() *cobra.Command {
	var (
		listenAddr string
		connectURL string
	)
	cmd := &cobra.Command{
		Use:   "chat <peer>",
		Short: "Talk to a pinned peer directly over a websocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if (listenAddr == "") == (connectURL == "") {
				return errors.New("exactly one of --listen or --connect is required")
			}

			peer, ok, err := appCtx.PeerStore.LoadPeer(domain.Username(args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s is not pinned; run trust first", args[0])
			}
			id, err := appCtx.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var conn transport.Conn
			if connectURL != "" {
				conn, err = transport.Dial(ctx, connectURL, nil)
			} else {
				conn, err = acceptOne(ctx, cmd, listenAddr)
			}
			if err != nil {
				return err
			}
			defer conn.Close()

			sc := transport.NewSecureConn(conn, id.Keys.Private, packet.New(packet.WithDiagnostics(app.Log("PCKT"))))
			sc.SetPeer(peer)
			printf(cmd, "Connected to %v\n", peer)

			go func() {
				defer cancel()
				for {
					content, valid, err := sc.ReceiveMessage(ctx)
					if err != nil {
						if !errors.Is(err, context.Canceled) && !errors.Is(err, transport.ErrClosed) {
							cmdsLog().Errorf("Receive: %v", err)
						}
						return
					}
					printMessage(cmd, domain.DecryptedMessage{
						From:           peer.Username,
						Message:        message.DecodeMessage(content),
						Raw:            content,
						SignatureValid: valid,
					})
				}
			}()

			lines := bufio.NewScanner(cmd.InOrStdin())
			for lines.Scan() {
				text := strings.TrimSpace(lines.Text())
				if text == "" {
					continue
				}
				body, err := json.Marshal(domain.Message{Type: domain.MessageTypeChat, Body: text})
				if err != nil {
					return err
				}
				if err := sc.SendMessage(ctx, string(body)); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
			return lines.Err()
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "wait for the peer on this address (e.g. :9000)")
	cmd.Flags().StringVar(&connectURL, "connect", "", "dial the peer at this websocket URL (e.g. ws://host:9000/)")
	return cmd
}

// acceptOne serves addr until a single websocket client connects.
func acceptOne(ctx context.Context, cmd *cobra.Command, addr string) (transport.Conn, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	printf(cmd, "Waiting for peer on ws://%s/\n", ln.Addr())

	got := make(chan transport.Conn, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Accept(w, r)
		if err != nil {
			return
		}
		select {
		case got <- conn:
		default:
			_ = conn.Close()
		}
	})}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	select {
	case c := <-got:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
