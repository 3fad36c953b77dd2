package types

// Identity holds the local long-term RSA key pair.
type Identity struct {
	Keys       KeyPair `json:"keys"`
	Bits       int     `json:"bits"`
	CreatedUTC int64   `json:"created_utc"`
}
