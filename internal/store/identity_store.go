package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"kentchat/internal/domain"
)

const idFilename = "identity.json.enc"

// IdentityFileStore persists the local identity to disk, encrypted under a
// passphrase.
type IdentityFileStore struct {
	dir string
	kdf scryptParams
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, kdf: defaultScryptParams()}
}

// SaveIdentity writes the encrypted identity to disk, replacing any
// previous one.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	ct, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(s.dir, idFilename), ct, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	log.Debugf("Saved %d-bit identity to %s", id.Bits, s.dir)
	return nil
}

// LoadIdentity reads and decrypts the identity. It returns ErrNoIdentity if
// none has been saved and ErrWrongPassphrase if it cannot be opened.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, idFilename))
	if err != nil {
		return domain.Identity{}, err
	}
	if b == nil {
		return domain.Identity{}, ErrNoIdentity
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
