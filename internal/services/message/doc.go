// Package message sends and receives sealed application messages.
//
// Outgoing messages are marshalled to JSON, sealed into a wire packet for
// the recipient's pinned key and posted to the relay inside an envelope.
// Incoming envelopes are opened with the local private key and checked
// against the sender's pinned key. Packets that are malformed or fail to
// decrypt are reported to the diagnostic sink and dropped; a bad signature
// is surfaced to the caller via DecryptedMessage.SignatureValid.
package message
