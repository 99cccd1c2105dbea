package server

import (
	"sync"
	"time"

	"github.com/jonathan/agrimrv-lite/internal/auth"
	"github.com/jonathan/agrimrv-lite/internal/notify"
	"go.uber.org/zap"
)

// visitor is the page state kept for one browser between requests.
type visitor struct {
	notes    *notify.Queue
	register *auth.Form
	login    *auth.Form
	lastSeen time.Time
}

// visitorStore keeps visitor state keyed by the visitor cookie.
type visitorStore struct {
	provider auth.Provider
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newVisitorStore(provider auth.Provider, logger *zap.Logger, ttl time.Duration) *visitorStore {
	return &visitorStore{
		provider: provider,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// get returns the state of visitor id, creating it on first sight.
func (vs *visitorStore) get(id string) *visitor {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, ok := vs.visitors[id]
	if !ok {
		notes := notify.NewQueue()
		logger := vs.logger.With(zap.String("visitor_id", id))
		v = &visitor{
			notes:    notes,
			register: auth.NewForm(auth.ModeSignUp, vs.provider, notes, logger),
			login:    auth.NewForm(auth.ModeSignIn, vs.provider, notes, logger),
		}
		vs.visitors[id] = v
	}
	v.lastSeen = vs.now()
	return v
}

// sweep forgets visitors idle since before now-ttl and returns their IDs.
func (vs *visitorStore) sweep(now time.Time) []string {
	cutoff := now.Add(-vs.ttl)

	vs.mu.Lock()
	defer vs.mu.Unlock()

	var expired []string
	for id, v := range vs.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(vs.visitors, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (vs *visitorStore) len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.visitors)
}
