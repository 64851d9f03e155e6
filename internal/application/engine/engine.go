// Package engine drives the enrollment conversation: a deterministic state
// machine over persisted sessions, steered by keyword intent detection.
// One Handle call is one conversational turn.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/nlp"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/circuitbreaker"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════
// Engine
// ══════════════════════════════════════════════════════════════

// Engine is the dialogue state machine. Turns for the same session are
// serialized with a per-session lock; turns for different sessions run
// concurrently.
type Engine struct {
	sessions dialogue.SessionStore
	history  dialogue.HistoryStore
	intake   *DocumentIntake
	catalog  Catalog
	classify *nlp.Classifier
	log      *logger.Logger

	// historyBreaker keeps a down history backend from stalling the chat:
	// a failed append is logged and the turn still completes.
	historyBreaker *circuitbreaker.CircuitBreaker

	locks sessionLocks
}

// Options carries the engine's collaborators. Sessions and History are
// required; zero-value Catalog and Vocabulary fall back to the built-in
// Spanish defaults.
type Options struct {
	Sessions   dialogue.SessionStore
	History    dialogue.HistoryStore
	Intake     *DocumentIntake
	Catalog    Catalog
	Vocabulary nlp.Vocabulary
	Logger     *logger.Logger
}

// New builds a dialogue engine.
func New(opts Options) *Engine {
	if opts.Catalog.Grades == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Vocabulary.Greetings == nil {
		opts.Vocabulary = nlp.DefaultVocabulary()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	log := opts.Logger.With(logger.Component("engine"))

	return &Engine{
		sessions: opts.Sessions,
		history:  opts.History,
		intake:   opts.Intake,
		catalog:  opts.Catalog,
		classify: nlp.NewClassifier(opts.Vocabulary),
		log:      log,

		historyBreaker: circuitbreaker.HistoryBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		}),

		locks: sessionLocks{m: make(map[string]*lockEntry)},
	}
}

// Handle processes one user turn. An empty session id allocates a new
// session. Attachments, when present, take precedence over the text message
// and run the document intake path.
func (e *Engine) Handle(ctx context.Context, sessionID, message string, attachments []dialogue.Attachment) (dialogue.Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := e.locks.lock(sessionID)
	defer unlock()

	sess, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return dialogue.Reply{}, fmt.Errorf("load session: %w", err)
	}

	var reply dialogue.Reply
	recorded := message
	if len(attachments) > 0 {
		reply, err = e.handleAttachments(ctx, &sess, attachments)
		recorded = fmt.Sprintf("[Archivos subidos: %d]", len(attachments))
	} else {
		reply = e.route(&sess, message)
	}
	if err != nil {
		return dialogue.Reply{}, err
	}
	reply.SessionID = sess.ID

	if err := e.sessions.Save(ctx, sess); err != nil {
		return dialogue.Reply{}, fmt.Errorf("save session: %w", err)
	}
	e.recordTurn(ctx, sess.ID, recorded, reply.Message)

	e.log.Debug("turn handled",
		logger.SessionID(sess.ID),
		logger.DialogueState(string(sess.State)))
	return reply, nil
}

// CreateSession allocates and persists a fresh start-state session.
func (e *Engine) CreateSession(ctx context.Context) (dialogue.Session, error) {
	sess := dialogue.NewSession(uuid.NewString())
	if err := e.sessions.Save(ctx, sess); err != nil {
		return dialogue.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// recordTurn appends to the conversation log behind the circuit breaker.
// History is best-effort: the reply already exists, losing the log line
// must not fail the turn.
func (e *Engine) recordTurn(ctx context.Context, sessionID, userMessage, botReply string) {
	err := e.historyBreaker.Execute(ctx, func(ctx context.Context) error {
		return e.history.Append(ctx, sessionID, dialogue.NewTurn(userMessage, botReply))
	})
	if err != nil {
		e.log.Warn("history append failed",
			logger.SessionID(sessionID), logger.Err(err))
	}
}

// ══════════════════════════════════════════════════════════════
// Routing
// ══════════════════════════════════════════════════════════════

// route applies the turn policy: greeting and enrollment shortcuts from the
// start state, contextual greetings mid-flow, then the current state's
// handler.
func (e *Engine) route(sess *dialogue.Session, message string) dialogue.Reply {
	if sess.State == dialogue.StateStart {
		if e.classify.IsGreeting(message) {
			return e.greet()
		}
		if e.classify.IsEnrollmentTopic(message) {
			return e.startEnrollment(sess)
		}
	} else if e.classify.IsGreeting(message) {
		return e.greetInState(sess)
	}

	switch sess.State {
	case dialogue.StateStart:
		return e.handleStart(sess, message)
	case dialogue.StateMenuEnrollment:
		return e.handleMenuEnrollment(sess, message)
	case dialogue.StateGradeRequirements:
		return e.handleGradeRequirements(sess, message)
	case dialogue.StateUploadingDocuments:
		return e.handleUploadingDocuments(sess, message)
	case dialogue.StateVerifyingEnrollment:
		return e.handleVerifyingEnrollment(sess, message)
	case dialogue.StateConnectingAdvisor:
		return e.handleConnectingAdvisor(sess, message)
	case dialogue.StateDataCollection:
		return e.handleDataCollection(sess, message)
	case dialogue.StateInPersonRedirect:
		return e.handleInPersonRedirect(sess, message)
	case dialogue.StatePostEnrollment:
		return e.handlePostEnrollment(sess, message)
	default:
		sess.State = dialogue.StateStart
		sess.Context = dialogue.NewContext()
		return dialogue.OptionsReply(msgGenericFallback, mainMenu())
	}
}

// matchGrade resolves a grade mention by label prefix ("1er"), ordinal word
// ("primero") or bare position digit.
func (e *Engine) matchGrade(message string) (string, bool) {
	ordinals := []string{"primero", "segundo", "tercero", "cuarto", "quinto", "sexto"}
	nm := nlp.Normalize(message)
	for i, grade := range e.catalog.Grades {
		keywords := []string{strings.Fields(nlp.Normalize(grade))[0], fmt.Sprintf("%d", i+1)}
		if i < len(ordinals) {
			keywords = append(keywords, ordinals[i])
		}
		for _, kw := range keywords {
			if strings.Contains(nm, kw) {
				return grade, true
			}
		}
	}
	return "", false
}

// setContact merges newly extracted contact data into the session without
// letting empty values overwrite what is already known.
func setContact(sess *dialogue.Session, info nlp.ContactInfo) {
	if info.Name != "" {
		sess.Name = info.Name
	}
	if info.Phone != "" {
		sess.Phone = info.Phone
	}
}

func nlpSlug(s string) string {
	return strings.ReplaceAll(nlp.Normalize(s), " ", "_")
}

// ══════════════════════════════════════════════════════════════
// Per-session locks
// ══════════════════════════════════════════════════════════════

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per live session id. Entries are
// reference-counted and dropped when the last holder unlocks, so the map
// does not grow with the total number of sessions ever seen.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.m[id]
	if !ok {
		entry = &lockEntry{}
		l.m[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
