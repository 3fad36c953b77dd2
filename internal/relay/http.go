package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"kentchat/internal/domain"
	"kentchat/internal/transport"
)

// ErrNotFound is returned when the relay has no record of a user's key.
var ErrNotFound = errors.New("not found on relay")

// keyRecord is the JSON body of POST /keys and GET /keys/{username}.
type keyRecord struct {
	Username  domain.Username     `json:"username"`
	PublicKey domain.PublicKeyPEM `json:"public_key"`
}

// ackRequest drops either the first Count envelopes or exactly those in
// IDs.
type ackRequest struct {
	Count int      `json:"count,omitempty"`
	IDs   []uint64 `json:"ids,omitempty"`
}

// enqueueResponse is the body of a successful POST /msg/{user}.
type enqueueResponse struct {
	ID uint64 `json:"id"`
}

// HTTP is a domain.RelayClient speaking JSON over HTTP.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relay at base. A nil client uses
// http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client}
}

// PublishKey uploads our public key under username.
func (c *HTTP) PublishKey(ctx context.Context, username domain.Username, key domain.PublicKeyPEM) error {
	return c.post(ctx, "/keys", keyRecord{Username: username, PublicKey: key}, nil)
}

// FetchKey returns the key published under username.
func (c *HTTP) FetchKey(ctx context.Context, username domain.Username) (domain.PublicKeyPEM, error) {
	var rec keyRecord
	if err := c.getJSON(ctx, "/keys/"+url.PathEscape(username.String()), &rec); err != nil {
		return nil, err
	}
	return rec.PublicKey, nil
}

// SendEnvelope posts env to the recipient's queue.
func (c *HTTP) SendEnvelope(ctx context.Context, env domain.Envelope) error {
	return c.post(ctx, "/msg/"+url.PathEscape(env.To.String()), env, nil)
}

// FetchEnvelopes lists up to limit queued envelopes; limit <= 0 means all.
func (c *HTTP) FetchEnvelopes(ctx context.Context, username domain.Username, limit int) ([]domain.Envelope, error) {
	path := "/msg/" + url.PathEscape(username.String())
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.Envelope
	if err := c.getJSON(ctx, path, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

// AckEnvelopes drops the first count envelopes from username's queue.
func (c *HTTP) AckEnvelopes(ctx context.Context, username domain.Username, count int) error {
	return c.post(ctx, "/msg/"+url.PathEscape(username.String())+"/ack", ackRequest{Count: count}, nil)
}

// AckEnvelopeIDs drops the envelopes with the given ids from username's
// queue, wherever they are in it.
func (c *HTTP) AckEnvelopeIDs(ctx context.Context, username domain.Username, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return c.post(ctx, "/msg/"+url.PathEscape(username.String())+"/ack", ackRequest{IDs: ids}, nil)
}

// Subscribe opens the websocket feed for username. Each message received
// on the returned Conn is one JSON-encoded domain.Envelope.
func (c *HTTP) Subscribe(ctx context.Context, username domain.Username) (*transport.WebSocketConn, error) {
	u, err := url.Parse(c.Base)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + url.PathEscape(username.String())
	return transport.Dial(ctx, u.String(), nil)
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTP) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("relay %s %s: %w", strings.ToLower(req.Method), req.URL.Path, ErrNotFound)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", strings.ToLower(req.Method), req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

var _ domain.RelayClient = (*HTTP)(nil)
