package domain

import (
	interfaces "kentchat/internal/domain/interfaces"
	types "kentchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username         = types.Username
	Fingerprint      = types.Fingerprint
	WirePacket       = types.WirePacket
	PublicKeyPEM     = types.PublicKeyPEM
	PrivateKeyPEM    = types.PrivateKeyPEM
	KeyPair          = types.KeyPair
	PeerIdentity     = types.PeerIdentity
	Identity         = types.Identity
	Message          = types.Message
	Envelope         = types.Envelope
	DecryptedMessage = types.DecryptedMessage
	AccountProfile   = types.AccountProfile
)

// Message type constants.
const (
	MessageTypeChat   = types.MessageTypeChat
	MessageTypeTunnel = types.MessageTypeTunnel
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService = interfaces.IdentityService
	PeerService     = interfaces.PeerService
	MessageService  = interfaces.MessageService
	RelayClient     = interfaces.RelayClient
	IdentityStore   = interfaces.IdentityStore
	PeerStore       = interfaces.PeerStore
	AccountStore    = interfaces.AccountStore
	KeyProvider     = interfaces.KeyProvider
	Diagnostics     = interfaces.Diagnostics
)
