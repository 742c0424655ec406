// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"context"

	"github.com/google/uuid"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/input"
)

type SessionStore interface {
	Create(caps domain.Capabilities) (*domain.Session, error)
	Get(id uuid.UUID) (*domain.Session, error)
	Delete(id uuid.UUID) error
	List() []*domain.Session
}

type ElementResolver interface {
	Find(sess *domain.Session, strategy, value string) (*domain.Element, error)
	Get(sessionID, elementID uuid.UUID) (*domain.Element, error)
	DropSession(sessionID uuid.UUID)
}

// ActionExecutor is the engine surface the router drives. Every operation
// that touches the OS input queue goes through it so dispatch stays
// serialized process-wide.
type ActionExecutor interface {
	ExecuteActions(seq domain.ActionSequence, dc input.DispatchContext) error
	SendText(text string) error
	SendChord(modifier, key string) error
	SendScanCodes(codes []uint16) error
	Click(el *domain.Element, dc input.DispatchContext, button, repeat int, align string, offsetX, offsetY int) error
	CursorPos() (input.Point, error)
	MoveCursor(p input.Point) error
}

// CommandRecorder persists and reads back the command audit trail. A nil
// recorder disables auditing.
type CommandRecorder interface {
	Record(ctx context.Context, rec domain.CommandRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error)
}
