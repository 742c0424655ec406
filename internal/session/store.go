// SPDX-License-Identifier: Apache-2.0

// Package session holds the in-memory driver session table.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/metrics"
	"github.com/dverbeek/windriver/internal/winauto"
)

// Store is a mutex-guarded session table with a hard concurrent-session
// limit. The native input queue is a single shared resource, so the limit
// defaults to one session at a time.
type Store struct {
	auto        winauto.Automation
	logger      *slog.Logger
	maxSessions int

	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func NewStore(auto winauto.Automation, maxSessions int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Store{
		auto:        auto,
		logger:      logger,
		maxSessions: maxSessions,
		sessions:    make(map[uuid.UUID]*domain.Session, 4),
	}
}

// Create negotiates capabilities into a new session. When the capabilities
// name a target application window, the window is resolved now and its
// handle bound to the session; a missing window fails the command. The
// scale ratio comes from an explicit capability override, else from the
// bound window's display DPI, else 1.0.
func (s *Store) Create(caps domain.Capabilities) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		metrics.IncSessionRejected()
		return nil, domain.ErrSessionLimitExceeded
	}

	sess := &domain.Session{
		ID:           uuid.New(),
		Capabilities: caps,
		ScaleRatio:   1.0,
		CreatedAt:    time.Now().UTC(),
	}

	if caps.App != "" || caps.AppClass != "" {
		window, err := s.auto.FindTopWindow(caps.App, caps.AppClass)
		switch {
		case err == nil:
			sess.AppHandle = window.Handle
			sess.ScaleRatio = s.auto.WindowScale(window.Handle)
		case errors.Is(err, domain.ErrUnsupportedPlatform):
			// run unbound so the server stays usable off-Windows
			s.logger.Warn("session created without native window binding",
				"app", caps.App,
				"error", err,
			)
		default:
			return nil, domain.InvalidArgument("application window not found: %q", caps.App)
		}
	}

	if caps.ScaleRatio > 0 {
		sess.ScaleRatio = caps.ScaleRatio
	}

	s.sessions[sess.ID] = sess
	metrics.SetActiveSessions(len(s.sessions))

	s.logger.Info("session created",
		"session_id", sess.ID,
		"app", caps.App,
		"scale_ratio", sess.ScaleRatio,
	)
	return sess, nil
}

func (s *Store) Get(id uuid.UUID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.SetActiveSessions(len(s.sessions))
	s.logger.Info("session deleted", "session_id", id)
	return nil
}

// List returns the active sessions in unspecified order.
func (s *Store) List() []*domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}
