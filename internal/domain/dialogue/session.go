// Package dialogue contains the conversational domain model: session state,
// structured replies, and the narrow persistence contracts the dialogue
// engine depends on. No external dependencies - pure business types.
package dialogue

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATES
// ══════════════════════════════════════════════════════════════════════════════

// State is a named point in the dialogue state machine. It determines which
// handler processes the next message for a session.
type State string

const (
	// StateStart is the initial state and the reset target of every flow.
	StateStart State = "start"
	// StateMenuEnrollment - the user is inside the enrollment options menu.
	StateMenuEnrollment State = "menu_enrollment"
	// StateGradeRequirements - the user is picking a grade to see requirements.
	StateGradeRequirements State = "grade_requirements"
	// StateUploadingDocuments - the user is expected to send document photos.
	StateUploadingDocuments State = "uploading_documents"
	// StateVerifyingEnrollment - the user is expected to send a student code.
	StateVerifyingEnrollment State = "verifying_enrollment"
	// StateConnectingAdvisor - contact data is being collected for a callback.
	StateConnectingAdvisor State = "connecting_advisor"
	// StateDataCollection - generic additional-data collection.
	StateDataCollection State = "data_collection"
	// StateInPersonRedirect - the user was pointed to the secretary's office.
	StateInPersonRedirect State = "in_person_redirect"
	// StatePostEnrollment - documents were accepted, follow-up menu offered.
	StatePostEnrollment State = "post_enrollment"
)

// IsValid reports whether s is one of the finite engine states.
func (s State) IsValid() bool {
	switch s {
	case StateStart, StateMenuEnrollment, StateGradeRequirements,
		StateUploadingDocuments, StateVerifyingEnrollment, StateConnectingAdvisor,
		StateDataCollection, StateInPersonRedirect, StatePostEnrollment:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT
// ══════════════════════════════════════════════════════════════════════════════

// Context key set. Handlers only ever read and write these keys; anything
// else found in a stored context is carried along untouched.
const (
	// CtxSelectedGrade holds the grade the user picked ("1er grado"...).
	CtxSelectedGrade = "grado_seleccionado"
	// CtxSelectedOption holds the last root/enrollment menu choice.
	CtxSelectedOption = "opcion_seleccionada"
)

// Context is the per-session scratch data threaded across states.
type Context map[string]string

// NewContext returns an empty context.
func NewContext() Context { return Context{} }

// SelectedGrade returns the stored grade label, or "" when none was chosen.
func (c Context) SelectedGrade() string { return c[CtxSelectedGrade] }

// SetSelectedGrade records the chosen grade label.
func (c Context) SetSelectedGrade(grade string) { c[CtxSelectedGrade] = grade }

// SelectedOption returns the stored menu choice, or "".
func (c Context) SelectedOption() string { return c[CtxSelectedOption] }

// SetSelectedOption records the menu choice.
func (c Context) SetSelectedOption(option string) { c[CtxSelectedOption] = option }

// Clone returns an independent copy. A nil context clones to an empty one.
func (c Context) Clone() Context {
	clone := make(Context, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is the persisted conversational state for one user across turns.
type Session struct {
	// ID is the opaque session identifier.
	ID string `json:"id"`

	// State is the current dialogue state; always one of the engine states.
	State State `json:"state"`

	// Context is the per-session scratch data.
	Context Context `json:"context"`

	// Name is the contact name captured for the advisor callback, if any.
	Name string `json:"name,omitempty"`

	// Phone is the contact phone captured for the advisor callback, if any.
	Phone string `json:"phone,omitempty"`

	// UpdatedAt is the time of the last write.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh session in the start state.
func NewSession(id string) Session {
	return Session{
		ID:        id,
		State:     StateStart,
		Context:   NewContext(),
		UpdatedAt: time.Now().UTC(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrSessionNotFound - the session id is unknown to the store.
	// Load never returns it (unknown ids yield a fresh session); Delete may.
	ErrSessionNotFound = errors.New("dialogue: session not found")

	// ErrEmptySessionID - an empty session id was supplied.
	ErrEmptySessionID = errors.New("dialogue: session id cannot be empty")
)

// SessionStore persists sessions keyed by id. Last write wins; read-modify-
// write across concurrent requests for the same id is serialized by the
// engine, not the store.
type SessionStore interface {
	// Load returns the stored session, or a fresh start-state session
	// carrying the given id when the id is unknown.
	Load(ctx context.Context, id string) (Session, error)

	// Save persists state, context and contact fields for the session.
	Save(ctx context.Context, s Session) error

	// SetContact merges contact fields into the stored session without
	// touching state or context. Empty arguments leave the stored value
	// unchanged. For callers that do not hold the full session; the engine's
	// turn path persists contact through Save under its keyed lock.
	SetContact(ctx context.Context, id, name, phone string) error

	// Delete removes the session. External operation - the engine itself
	// never deletes sessions.
	Delete(ctx context.Context, id string) error
}

// Turn is one recorded exchange: what the user sent and what the bot replied.
type Turn struct {
	UserMessage string    `json:"user_message"`
	BotReply    string    `json:"bot_reply"`
	At          time.Time `json:"timestamp"`
}

// NewTurn builds a turn stamped with the current UTC time.
func NewTurn(userMessage, botReply string) Turn {
	return Turn{UserMessage: userMessage, BotReply: botReply, At: time.Now().UTC()}
}

// HistoryStore records the conversation log per session.
type HistoryStore interface {
	// Append records one turn at the end of the session's log.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// List returns the session's turns in chronological order.
	List(ctx context.Context, sessionID string) ([]Turn, error)

	// DeleteBySession removes the session's log.
	DeleteBySession(ctx context.Context, sessionID string) error
}
