// Package session remembers the document a user last worked on.
//
// A session records the document path, output format and engine so that
// `umlpad serve` and `umlpad watch` can resume where the user left off:
//
//	store, err := session.NewFileStore("")  // ~/.config/umlpad/session.json
//	sess, err := store.Load(ctx)
//	if errors.Is(err, session.ErrNotFound) {
//	    sess = session.New(path, render.FormatSVG, "plantuml")
//	}
//	sess.Touch(path)
//	store.Save(ctx, sess)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/umlpad/pkg/render"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when no session has been saved yet.
	ErrNotFound = errors.New("session not found")

	// ErrCorrupt is returned when the stored session cannot be decoded.
	ErrCorrupt = errors.New("session corrupt")
)

// Session is the persisted workspace state.
type Session struct {
	ID        string        `json:"id"`
	Path      string        `json:"path"`
	Format    render.Format `json:"format"`
	Engine    string        `json:"engine"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New creates a session for the document at path.
func New(path string, format render.Format, engine string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Path:      path,
		Format:    format,
		Engine:    engine,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records path as the current document.
func (s *Session) Touch(path string) {
	s.Path = path
	s.UpdatedAt = time.Now()
}

// Store persists a single session.
type Store interface {
	// Load returns the saved session, or ErrNotFound.
	Load(ctx context.Context) (*Session, error)

	// Save replaces the saved session.
	Save(ctx context.Context, s *Session) error

	// Clear removes the saved session. Clearing an absent session is not
	// an error.
	Clear(ctx context.Context) error
}
