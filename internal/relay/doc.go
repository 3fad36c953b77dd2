// Package relay implements the untrusted store-and-forward relay and its
// HTTP client.
//
// The relay holds published public keys and per-user queues of sealed
// envelopes. It never sees plaintext: the only check it makes on a packet
// is that it has the three-segment wire shape.
//
// Endpoints:
//   - POST /keys                  publish {username, public_key}
//   - GET  /keys/{username}       fetch a published key
//   - POST /msg/{user}            enqueue an envelope
//   - GET  /msg/{user}?limit=N    list queued envelopes
//   - POST /msg/{user}/ack        drop the first {count} envelopes, or {ids}
//   - GET  /ws/{user}             websocket: queued, then live envelopes
//
// HTTP is a domain.RelayClient over these endpoints. All requests are JSON
// and accept a context for cancellation and deadlines. Non-2xx statuses are
// returned as errors carrying the method, path and status text.
package relay
