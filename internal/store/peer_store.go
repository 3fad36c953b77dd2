package store

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"kentchat/internal/domain"
)

const peersFile = "peers.json"

// reservedUsernameChars may not appear in a username. They are used as
// separators in relay paths and account keys.
const reservedUsernameChars = " %^@#\\"

// ValidateUsername rejects empty usernames and ones containing any of
// reservedUsernameChars.
func ValidateUsername(u domain.Username) error {
	if u == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if i := strings.IndexAny(string(u), reservedUsernameChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidUsername, u, u[i])
	}
	return nil
}

// PeerFileStore pins peer public keys on first use.
type PeerFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPeerFileStore returns a PeerFileStore rooted at dir.
func NewPeerFileStore(dir string) *PeerFileStore {
	return &PeerFileStore{dir: dir}
}

// SavePeer pins peer.PublicKey for peer.Username. If a different key is
// already pinned it fails with ErrPeerKeyMismatch unless replace is set.
// Saving the same key again is a no-op.
func (s *PeerFileStore) SavePeer(peer domain.PeerIdentity, replace bool) error {
	if err := ValidateUsername(peer.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, peersFile)
	peers := make(map[domain.Username]domain.PeerIdentity)
	if err := readJSON(path, &peers); err != nil {
		return err
	}

	if old, ok := peers[peer.Username]; ok {
		if bytes.Equal(old.PublicKey, peer.PublicKey) {
			return nil
		}
		if !replace {
			return fmt.Errorf("%w: %s pinned as %s, offered %s",
				ErrPeerKeyMismatch, peer.Username, old.Fingerprint, peer.Fingerprint)
		}
		log.Warnf("Replacing pinned key for %s (%s -> %s)", peer.Username, old.Fingerprint, peer.Fingerprint)
	}

	peers[peer.Username] = peer
	return writeJSON(path, peers, 0o600)
}

// LoadPeer returns the pinned identity for username and whether it exists.
func (s *PeerFileStore) LoadPeer(username domain.Username) (domain.PeerIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := make(map[domain.Username]domain.PeerIdentity)
	if err := readJSON(filepath.Join(s.dir, peersFile), &peers); err != nil {
		return domain.PeerIdentity{}, false, err
	}
	p, ok := peers[username]
	return p, ok, nil
}

// ListPeers returns all pinned peers sorted by username.
func (s *PeerFileStore) ListPeers() ([]domain.PeerIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := make(map[domain.Username]domain.PeerIdentity)
	if err := readJSON(filepath.Join(s.dir, peersFile), &peers); err != nil {
		return nil, err
	}
	out := make([]domain.PeerIdentity, 0, len(peers))
	for _, p := range peers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Compile-time assertion that PeerFileStore implements domain.PeerStore.
var _ domain.PeerStore = (*PeerFileStore)(nil)
