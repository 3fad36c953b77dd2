package store

import (
	"path/filepath"
	"strings"
	"sync"

	"kentchat/internal/domain"
)

const accountsFile = "accounts.json"

// AccountFileStore persists per-relay account profiles to disk.
type AccountFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountFileStore returns an AccountFileStore rooted at dir.
func NewAccountFileStore(dir string) *AccountFileStore {
	return &AccountFileStore{dir: dir}
}

// SaveAccountProfile stores or updates the profile for profile.ServerURL.
func (s *AccountFileStore) SaveAccountProfile(profile domain.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFile)
	profiles := make(map[string]domain.AccountProfile)
	if err := readJSON(path, &profiles); err != nil {
		return err
	}
	profiles[accountKey(profile.ServerURL)] = profile
	return writeJSON(path, profiles, 0o600)
}

// LoadAccountProfile retrieves the profile registered on serverURL.
func (s *AccountFileStore) LoadAccountProfile(serverURL string) (domain.AccountProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make(map[string]domain.AccountProfile)
	if err := readJSON(filepath.Join(s.dir, accountsFile), &profiles); err != nil {
		return domain.AccountProfile{}, false, err
	}
	profile, ok := profiles[accountKey(serverURL)]
	return profile, ok, nil
}

// accountKey normalises a relay URL so trailing slashes don't split profiles.
func accountKey(serverURL string) string {
	return strings.TrimRight(serverURL, "/")
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
