package types

// Username identifies a chat participant on the relay.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// WirePacket is the three-segment encoded form of a sealed message:
// base64(ciphertext) '|' base64(wrapped key) '|' base64(signature).
type WirePacket string

// String returns the wire form of the packet.
func (p WirePacket) String() string { return string(p) }
