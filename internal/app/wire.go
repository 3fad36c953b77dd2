package app

import (
	"fmt"
	"net/http"
	"os"

	"kentchat/internal/domain"
	"kentchat/internal/relay"
	identitysvc "kentchat/internal/services/identity"
	messagesvc "kentchat/internal/services/message"
	peersvc "kentchat/internal/services/peer"
	"kentchat/internal/store"
)

// App bundles all stores, services, and clients for the CLI.
type App struct {
	Config Config

	IdentityStore domain.IdentityStore
	PeerStore     domain.PeerStore
	Accounts      domain.AccountStore

	Identity *identitysvc.Service
	Peers    *peersvc.Service
	Messages *messagesvc.Service
	Relay    *relay.HTTP
}

// New constructs the dependency graph from cfg, creating cfg.Home if needed.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home)
	peerStore := store.NewPeerFileStore(cfg.Home)
	accountStore := store.NewAccountFileStore(cfg.Home)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	rc := relay.NewHTTP(cfg.RelayURL, httpClient)

	// High-level services
	peerSvc := peersvc.New(cfg.RelayURL, identityStore, peerStore, accountStore, rc)
	messageSvc := messagesvc.New(identityStore, peerStore, peerSvc, rc, pcktLog)

	return &App{
		Config:        cfg,
		IdentityStore: identityStore,
		PeerStore:     peerStore,
		Accounts:      accountStore,
		Identity:      identitysvc.New(identityStore),
		Peers:         peerSvc,
		Messages:      messageSvc,
		Relay:         rc,
	}, nil
}

// Username returns the name this identity registered under on the
// configured relay.
func (a *App) Username() (domain.Username, error) {
	profile, ok, err := a.Accounts.LoadAccountProfile(a.Config.RelayURL)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("not registered on %s; run register first", a.Config.RelayURL)
	}
	return profile.Username, nil
}
