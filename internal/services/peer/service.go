package peer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/store"
)

// Service implements domain.PeerService.
type Service struct {
	serverURL string
	ids       domain.IdentityStore
	peers     domain.PeerStore
	accounts  domain.AccountStore
	relay     domain.RelayClient
	now       func() time.Time
}

// New returns a peer service talking to the relay at serverURL.
func New(
	serverURL string,
	ids domain.IdentityStore,
	peers domain.PeerStore,
	accounts domain.AccountStore,
	relay domain.RelayClient,
) *Service {
	return &Service{
		serverURL: serverURL,
		ids:       ids,
		peers:     peers,
		accounts:  accounts,
		relay:     relay,
		now:       time.Now,
	}
}

// Publish uploads our public key under username and records the account
// profile for this relay.
func (s *Service) Publish(
	ctx context.Context,
	passphrase string,
	username domain.Username,
) (domain.AccountProfile, error) {
	if err := store.ValidateUsername(username); err != nil {
		return domain.AccountProfile{}, err
	}
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	fp, err := crypto.Fingerprint(id.Keys.Public)
	if err != nil {
		return domain.AccountProfile{}, err
	}

	if err := s.relay.PublishKey(ctx, username, id.Keys.Public); err != nil {
		return domain.AccountProfile{}, fmt.Errorf("publish key: %w", err)
	}

	profile := domain.AccountProfile{
		ServerURL:     s.serverURL,
		Username:      username,
		Fingerprint:   domain.Fingerprint(fp),
		RegisteredUTC: s.now().UTC().Unix(),
	}
	if err := s.accounts.SaveAccountProfile(profile); err != nil {
		return domain.AccountProfile{}, err
	}
	log.Infof("Published key %s as %s on %s", fp, username, s.serverURL)
	return profile, nil
}

// Trust fetches username's key from the relay and pins it. An already
// pinned, identical key is returned unchanged.
func (s *Service) Trust(
	ctx context.Context,
	username domain.Username,
	replace bool,
) (domain.PeerIdentity, error) {
	if err := store.ValidateUsername(username); err != nil {
		return domain.PeerIdentity{}, err
	}
	fetched, err := s.fetch(ctx, username)
	if err != nil {
		return domain.PeerIdentity{}, err
	}

	pinned, ok, err := s.peers.LoadPeer(username)
	if err != nil {
		return domain.PeerIdentity{}, err
	}
	if ok && bytes.Equal(pinned.PublicKey, fetched.PublicKey) {
		return pinned, nil
	}

	fetched.PinnedUTC = s.now().UTC().Unix()
	if err := s.peers.SavePeer(fetched, replace); err != nil {
		return domain.PeerIdentity{}, err
	}
	log.Infof("Pinned %v", fetched)
	return fetched, nil
}

// Lookup returns the pinned identity for username, or the relay's current
// key (unpinned, PinnedUTC zero) when none is pinned.
func (s *Service) Lookup(ctx context.Context, username domain.Username) (domain.PeerIdentity, error) {
	pinned, ok, err := s.peers.LoadPeer(username)
	if err != nil {
		return domain.PeerIdentity{}, err
	}
	if ok {
		return pinned, nil
	}
	return s.fetch(ctx, username)
}

func (s *Service) fetch(ctx context.Context, username domain.Username) (domain.PeerIdentity, error) {
	key, err := s.relay.FetchKey(ctx, username)
	if err != nil {
		return domain.PeerIdentity{}, fmt.Errorf("fetch key for %s: %w", username, err)
	}
	fp, err := crypto.Fingerprint(key)
	if err != nil {
		return domain.PeerIdentity{}, fmt.Errorf("key for %s: %w", username, err)
	}
	return domain.PeerIdentity{
		Username:    username,
		PublicKey:   key,
		Fingerprint: domain.Fingerprint(fp),
	}, nil
}

// Compile-time assertion that Service implements domain.PeerService.
var _ domain.PeerService = (*Service)(nil)
