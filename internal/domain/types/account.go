package types

// AccountProfile records which username this identity published its key
// under on a specific relay.
type AccountProfile struct {
	ServerURL     string      `json:"server_url"`
	Username      Username    `json:"username"`
	Fingerprint   Fingerprint `json:"fingerprint"`
	RegisteredUTC int64       `json:"registered_utc"`
}
