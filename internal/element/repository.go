// SPDX-License-Identifier: Apache-2.0

// Package element caches UI elements located for a session, keyed by the
// opaque element ids handed to clients.
package element

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/winauto"
)

// Location strategies accepted by Find.
const (
	StrategyName      = "name"
	StrategyClassName = "class name"
)

// Repository resolves elements through the automation layer and caches them
// per session. Cached entries keep the native handle when one exists; the
// engine falls back to the cached bounding rectangle otherwise.
type Repository struct {
	auto winauto.Automation

	mu       sync.Mutex
	elements map[uuid.UUID]map[uuid.UUID]*domain.Element
}

func NewRepository(auto winauto.Automation) *Repository {
	return &Repository{
		auto:     auto,
		elements: make(map[uuid.UUID]map[uuid.UUID]*domain.Element, 4),
	}
}

// Find locates one child control of the session's bound window. Unknown
// strategies are client errors; a session without a bound window cannot
// locate elements natively.
func (r *Repository) Find(sess *domain.Session, strategy, value string) (*domain.Element, error) {
	switch strategy {
	case StrategyName, StrategyClassName:
	default:
		return nil, domain.InvalidArgument("unsupported location strategy %q", strategy)
	}

	if sess.AppHandle == 0 {
		return nil, domain.ErrElementNotFound
	}

	children, err := r.auto.Children(sess.AppHandle)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		if !strategyMatch(child, strategy, value) {
			continue
		}
		el := &domain.Element{
			ID:        uuid.New(),
			SessionID: sess.ID,
			Handle:    child.Handle,
			Name:      child.Title,
			ClassName: child.ClassName,
			Rect:      child.Rect,
		}
		r.put(el)
		return el, nil
	}
	return nil, domain.ErrElementNotFound
}

func (r *Repository) Get(sessionID, elementID uuid.UUID) (*domain.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.elements[sessionID][elementID]
	if !ok {
		return nil, domain.ErrElementNotFound
	}
	return el, nil
}

// Put caches an externally constructed element. Used by tests and by
// callers that resolve elements outside the find flow.
func (r *Repository) Put(el *domain.Element) {
	r.put(el)
}

// DropSession clears the cache for a deleted session.
func (r *Repository) DropSession(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elements, sessionID)
}

func (r *Repository) put(el *domain.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bySession, ok := r.elements[el.SessionID]
	if !ok {
		bySession = make(map[uuid.UUID]*domain.Element, 8)
		r.elements[el.SessionID] = bySession
	}
	bySession[el.ID] = el
}

func strategyMatch(w winauto.WindowInfo, strategy, value string) bool {
	switch strategy {
	case StrategyName:
		return strings.EqualFold(w.Title, value) ||
			strings.Contains(strings.ToLower(w.Title), strings.ToLower(value))
	case StrategyClassName:
		return w.ClassName == value
	}
	return false
}
