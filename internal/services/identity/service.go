package identity

import (
	"fmt"
	"time"
	"unicode"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages identity key creation and access using a backing store.
type Service struct {
	store domain.IdentityStore
	now   func() time.Time
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s, now: time.Now} }

// GenerateIdentity creates a new RSA identity of the given modulus size
// (crypto.DefaultRSABits when bits is zero), saves it encrypted with the
// passphrase, and returns it with the fingerprint of its public key.
func (s *Service) GenerateIdentity(
	passphrase string,
	bits int,
) (domain.Identity, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}
	if bits == 0 {
		bits = crypto.DefaultRSABits
	}

	keys, err := crypto.GenerateKeyPair(bits)
	if err != nil {
		return domain.Identity{}, "", err
	}
	fp, err := crypto.Fingerprint(keys.Public)
	if err != nil {
		return domain.Identity{}, "", err
	}

	id := domain.Identity{
		Keys:       keys,
		Bits:       bits,
		CreatedUTC: s.now().UTC().Unix(),
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", err
	}
	return id, domain.Fingerprint(fp), nil
}

// LoadIdentity decrypts and returns the local identity, checking that its
// key halves belong together.
func (s *Service) LoadIdentity(passphrase string) (domain.Identity, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := crypto.ValidateKeyPair(id.Keys); err != nil {
		return domain.Identity{}, fmt.Errorf("stored identity: %w", err)
	}
	return id, nil
}

// FingerprintIdentity returns a short fingerprint of the local public key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	fp, err := crypto.Fingerprint(id.Keys.Public)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(fp), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len([]rune(passphrase)) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
