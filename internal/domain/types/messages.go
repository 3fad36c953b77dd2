package types

// Message types carried inside sealed packets.
const (
	MessageTypeChat   = "chat"
	MessageTypeTunnel = "tunnel"
)

// Message is the application payload sealed into a packet, for example
// {"type":"tunnel","orig":"e1fcba2d"}.
type Message struct {
	Type string `json:"type"`
	Orig string `json:"orig,omitempty"`
	Body string `json:"body,omitempty"`
}

// Envelope is what gets posted to and fetched from the relay. The relay
// only ever sees the sealed packet. ID is assigned by the relay when the
// envelope is queued and is how a single envelope is acked.
type Envelope struct {
	ID        uint64     `json:"id,omitempty"`
	From      Username   `json:"from"`
	To        Username   `json:"to"`
	Packet    WirePacket `json:"packet"`
	Timestamp int64      `json:"timestamp"`
}

// DecryptedMessage is what MessageService.ReceiveMessages returns.
//
// SignatureValid is false when the packet decrypted but the sender's
// signature over the plaintext did not verify; callers decide what to do.
type DecryptedMessage struct {
	From           Username `json:"from"`
	To             Username `json:"to"`
	Message        Message  `json:"message"`
	Raw            string   `json:"raw"`
	SignatureValid bool     `json:"signature_valid"`
	Timestamp      int64    `json:"timestamp"`
}
