package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/embed"
	"dealer-admin-backend/internal/logger"
)

var ErrSessionNotFound = errors.New("invoice session not found")

const (
	DefaultBackingWidth  = 600
	DefaultBackingHeight = 200
	DefaultTTL           = 2 * time.Hour
)

// Store holds the open invoice sessions in memory and kicks off the
// asynchronous product-image embedding when a session is created.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	embedder *embed.Embedder
	ttl      time.Duration
	log      zerolog.Logger
}

func NewStore(embedder *embed.Embedder, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		embedder: embedder,
		ttl:      ttl,
		log:      logger.WithComponent("session"),
	}
}

// Create opens a session for the given product. When an image URL is
// supplied the embed runs detached; export reads whatever has resolved by
// then instead of waiting.
func (st *Store) Create(product *document.ProductFacts, imageURL string, backingW, backingH int) *Session {
	if backingW <= 0 {
		backingW = DefaultBackingWidth
	}
	if backingH <= 0 {
		backingH = DefaultBackingHeight
	}

	s := newSession(product, backingW, backingH)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	if imageURL != "" && st.embedder != nil {
		go func() {
			img := st.embedder.Embed(context.Background(), imageURL)
			s.SetProductImage(img)
			st.log.Debug().
				Str("session_id", s.ID.String()).
				Bool("embedded", !img.Empty()).
				Msg("product image resolved")
		}()
	} else {
		// Nothing to resolve; mark the image terminal immediately.
		s.SetProductImage(document.EmbeddedImage{})
	}

	return s
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of open sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (st *Store) Sweep() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.log.Info().Int("removed", removed).Msg("swept expired invoice sessions")
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is done.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Sweep()
			}
		}
	}()
}
