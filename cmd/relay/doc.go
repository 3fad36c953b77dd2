// Package main runs the in-memory KentChat relay.
//
// The relay stores published public keys and queues sealed envelopes for
// recipients until they fetch and ack them, or pushes them over a websocket
// to connected listeners. It never sees plaintext or private keys.
//
// HTTP API
//
//	POST /keys { "username": U, "public_key": PEM }
//	    Publish U's RSA public key. Invalid keys or usernames are rejected
//	    with 400; a different key for an existing username with 409.
//
//	GET /keys/{username}
//	    Return the key published for {username}, or 404.
//
//	POST /msg/{user}
//	    Enqueue an Envelope destined to {user}. The packet must have three
//	    base64 segments. If Timestamp is zero, the server fills it with the
//	    current Unix time. Replies 202 with {"id": N}, the envelope's id.
//
//	GET /msg/{user}?limit=N
//	    Return up to N queued Envelopes for {user}.
//
//	POST /msg/{user}/ack { "count": N } | { "ids": [...] }
//	    Drop the first N queued envelopes for {user}, or exactly those ids.
//
//	GET /ws/{user}
//	    Websocket: every queued envelope, then new ones as they arrive. A
//	    subscriber that falls behind has its feed closed and should
//	    resubscribe.
//
// All state is held in memory and lost on process exit.
package main
