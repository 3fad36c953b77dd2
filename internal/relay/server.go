package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kentchat/internal/crypto"
	"kentchat/internal/domain"
	"kentchat/internal/protocol/packet"
	"kentchat/internal/store"
	"kentchat/internal/transport"
)

const (
	maxBodyBytes      = 1 << 20
	defaultQueueLimit = 1000
	subscriberBuffer  = 64
)

// Server is an in-memory relay. It is safe for concurrent use.
type Server struct {
	queueLimit int

	mu     sync.RWMutex
	lastID uint64
	keys   map[domain.Username]domain.PublicKeyPEM
	queues map[domain.Username][]domain.Envelope
	subs   map[domain.Username]map[chan domain.Envelope]struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithQueueLimit caps how many envelopes may wait for one user.
func WithQueueLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.queueLimit = n
		}
	}
}

// NewServer returns an empty relay.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		queueLimit: defaultQueueLimit,
		keys:       make(map[domain.Username]domain.PublicKeyPEM),
		queues:     make(map[domain.Username][]domain.Envelope),
		subs:       make(map[domain.Username]map[chan domain.Envelope]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes registers the relay endpoints on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/keys", s.handlePublishKey)
	r.Get("/keys/{username}", s.handleFetchKey)
	r.Post("/msg/{user}", s.handleEnqueue)
	r.Get("/msg/{user}", s.handleList)
	r.Post("/msg/{user}/ack", s.handleAck)
	r.Get("/ws/{user}", s.handleSubscribe)
}

// Handler returns a router serving the relay endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	return r
}

func (s *Server) handlePublishKey(w http.ResponseWriter, r *http.Request) {
	var rec keyRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	if err := store.ValidateUsername(rec.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := crypto.ParsePublicKey(rec.PublicKey); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.keys[rec.Username]; ok && !bytes.Equal(old, rec.PublicKey) {
		http.Error(w, "username already registered with a different key", http.StatusConflict)
		return
	}
	s.keys[rec.Username] = rec.PublicKey
	log.Infof("Registered key for %s", rec.Username)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchKey(w http.ResponseWriter, r *http.Request) {
	username := domain.Username(chi.URLParam(r, "username"))

	s.mu.RLock()
	key, ok := s.keys[username]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, keyRecord{Username: username, PublicKey: key}, http.StatusOK)
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	to := domain.Username(chi.URLParam(r, "user"))

	var env domain.Envelope
	if !decodeBody(w, r, &env) {
		return
	}
	if env.To == "" {
		env.To = to
	}
	if env.To != to {
		http.Error(w, "recipient does not match path", http.StatusBadRequest)
		return
	}
	if _, err := packet.Decode(env.Packet); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[to]; !ok {
		http.NotFound(w, r)
		return
	}
	if len(s.queues[to]) >= s.queueLimit {
		http.Error(w, "recipient queue full", http.StatusTooManyRequests)
		return
	}
	s.lastID++
	env.ID = s.lastID
	if env.Timestamp == 0 {
		env.Timestamp = time.Now().Unix()
	}
	s.queues[to] = append(s.queues[to], env)
	for ch := range s.subs[to] {
		select {
		case ch <- env:
		default:
			// The envelope stays queued; closing the feed makes the client
			// resubscribe and pick it up from the backlog.
			log.Warnf("Subscriber for %s is slow, closing its feed", to)
			delete(s.subs[to], ch)
			close(ch)
		}
	}
	log.Debugf("Queued envelope %d %s -> %s (%d waiting)", env.ID, env.From, to, len(s.queues[to]))
	writeJSON(w, enqueueResponse{ID: env.ID}, http.StatusAccepted)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user := domain.Username(chi.URLParam(r, "user"))
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.mu.RLock()
	q := s.queues[user]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	out := append(make([]domain.Envelope, 0, len(q)), q...)
	s.mu.RUnlock()

	writeJSON(w, out, http.StatusOK)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	user := domain.Username(chi.URLParam(r, "user"))

	var req ackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Count < 0 || (req.Count > 0 && len(req.IDs) > 0) {
		http.Error(w, "invalid ack: give either a positive count or ids", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	q := s.queues[user]
	var n int
	if len(req.IDs) > 0 {
		q, n = removeIDs(q, req.IDs)
	} else {
		n = min(req.Count, len(q))
		q = q[n:]
	}
	s.queues[user] = append([]domain.Envelope(nil), q...)
	s.mu.Unlock()

	log.Debugf("Acked %d envelopes for %s", n, user)
	w.WriteHeader(http.StatusNoContent)
}

// removeIDs returns q without the envelopes listed in ids, and how many
// were removed. Unknown ids are ignored.
func removeIDs(q []domain.Envelope, ids []uint64) ([]domain.Envelope, int) {
	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]domain.Envelope, 0, len(q))
	for _, env := range q {
		if _, ok := drop[env.ID]; !ok {
			kept = append(kept, env)
		}
	}
	return kept, len(q) - len(kept)
}

// handleSubscribe streams the user's queue followed by live envelopes. It
// does not remove anything; clients still ack over HTTP.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	user := domain.Username(chi.URLParam(r, "user"))

	conn, err := transport.Accept(w, r)
	if err != nil {
		log.Debugf("Websocket upgrade for %s failed: %v", user, err)
		return
	}
	defer conn.Close()

	backlog, ch := s.subscribe(user)
	defer s.unsubscribe(user, ch)

	// Drain client frames so control messages are handled and we notice
	// when the client goes away.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, err := conn.Receive(ctx); err != nil {
				return
			}
		}
	}()

	send := func(env domain.Envelope) bool {
		b, err := json.Marshal(env)
		if err != nil {
			return false
		}
		return conn.Send(ctx, b) == nil
	}

	for _, env := range backlog {
		if !send(env) {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-ch:
			if !ok || !send(env) {
				return
			}
		}
	}
}

func (s *Server) subscribe(user domain.Username) ([]domain.Envelope, chan domain.Envelope) {
	ch := make(chan domain.Envelope, subscriberBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[user] == nil {
		s.subs[user] = make(map[chan domain.Envelope]struct{})
	}
	s.subs[user][ch] = struct{}{}
	backlog := append([]domain.Envelope(nil), s.queues[user]...)
	log.Debugf("Subscriber for %s attached (%d queued)", user, len(backlog))
	return backlog, ch
}

func (s *Server) unsubscribe(user domain.Username, ch chan domain.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[user], ch)
	if len(s.subs[user]) == 0 {
		delete(s.subs, user)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encode response: %v", err)
	}
}
