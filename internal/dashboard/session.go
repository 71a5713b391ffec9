package dashboard

import (
	"sync"

	"github.com/careboard/careboard/pkg/apperr"
)

// Sessions hands out one Controller per (session, kind) pair. Controllers
// are created lazily and live for the life of the process; the session id
// comes from the authenticated user, so each signed-in user drives an
// independent form lifecycle per entity kind.
type Sessions struct {
	mu        sync.Mutex
	resources map[string]Resource
	kinds     []string
	sessions  map[string]map[string]*Controller
}

func NewSessions(resources ...Resource) *Sessions {
	s := &Sessions{
		resources: make(map[string]Resource, len(resources)),
		sessions:  make(map[string]map[string]*Controller),
	}
	for _, r := range resources {
		s.resources[r.Kind()] = r
		s.kinds = append(s.kinds, r.Kind())
	}
	return s
}

// Resource returns the registered resource for kind.
func (s *Sessions) Resource(kind string) (Resource, bool) {
	res, ok := s.resources[kind]
	return res, ok
}

// Kinds returns the registered entity kinds.
func (s *Sessions) Kinds() []string {
	out := make([]string, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Controller returns the session's controller for kind, creating it on
// first use.
func (s *Sessions) Controller(sessionID, kind string) (*Controller, error) {
	res, ok := s.resources[kind]
	if !ok {
		return nil, apperr.Validationf("unknown entity kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	byKind, ok := s.sessions[sessionID]
	if !ok {
		byKind = make(map[string]*Controller)
		s.sessions[sessionID] = byKind
	}
	ctrl, ok := byKind[kind]
	if !ok {
		ctrl = NewController(res)
		byKind[kind] = ctrl
	}
	return ctrl, nil
}
