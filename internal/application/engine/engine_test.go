package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/persistence/memory"
)

type engineFixture struct {
	engine   *Engine
	sessions *memory.SessionStore
	history  *memory.HistoryStore
	docs     *memory.DocumentStore
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()

	sessions := memory.NewSessionStore()
	history := memory.NewHistoryStore()
	docs := memory.NewDocumentStore()

	eng := New(Options{
		Sessions: sessions,
		History:  history,
		Intake:   NewDocumentIntake(docs, memory.NewFileStore(), DefaultUploadPolicy(), nil),
	})
	return &engineFixture{engine: eng, sessions: sessions, history: history, docs: docs}
}

func (f *engineFixture) state(t *testing.T, sessionID string) dialogue.State {
	t.Helper()
	sess, err := f.sessions.Load(context.Background(), sessionID)
	require.NoError(t, err)
	return sess.State
}

func TestEnrollmentFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A greeting opens the main menu and allocates a session.
	reply, err := f.engine.Handle(ctx, "", "Hola", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.KindOptions, reply.Kind)
	assert.Len(t, reply.Options, 5)
	require.NotEmpty(t, reply.SessionID)
	id := reply.SessionID
	assert.Equal(t, dialogue.StateStart, f.state(t, id))

	// Mentioning enrollment enters the enrollment menu.
	reply, err = f.engine.Handle(ctx, id, "quiero información de matricula", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.KindOptions, reply.Kind)
	assert.Equal(t, dialogue.StateMenuEnrollment, f.state(t, id))

	// Choosing requirements asks for the grade.
	reply, err = f.engine.Handle(ctx, id, "requisitos", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateGradeRequirements, f.state(t, id))
	assert.Len(t, reply.Options, 4)

	// Selecting a grade lists its documents and records the grade.
	reply, err = f.engine.Handle(ctx, id, "1er grado", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "1er grado")
	assert.Contains(t, reply.Message, "DNI del menor")
	sess, err := f.sessions.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1er grado", sess.Context.SelectedGrade())

	// Accepting moves into document upload.
	reply, err = f.engine.Handle(ctx, id, "si", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.KindFileUpload, reply.Kind)
	assert.Equal(t, dialogue.StateUploadingDocuments, f.state(t, id))

	// Not having the SIAGE code redirects to in-person service.
	reply, err = f.engine.Handle(ctx, id, "no tengo el código", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateInPersonRedirect, f.state(t, id))
	assert.Contains(t, reply.Message, "Calle 13B 138")
}

func TestDocumentUploadApproves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Handle(ctx, "s1", "matricula", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "s1", "subir documentos", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "s1", "2do grado", nil)
	require.NoError(t, err)

	reply, err := f.engine.Handle(ctx, "s1", "", []dialogue.Attachment{
		{Kind: "dni", Name: "dni_frontal.jpg", Content: []byte("fake-jpeg")},
		{Kind: "libreta", Name: "libreta", Content: []byte("fake-photo")},
	})
	require.NoError(t, err)
	assert.True(t, reply.Approved)
	assert.Equal(t, "2do grado", reply.Grade)
	assert.Equal(t, 2, reply.DocumentsReceived)
	assert.Equal(t, dialogue.StatePostEnrollment, f.state(t, "s1"))

	docs, err := f.docs.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// Extensionless mobile shots are stored as .jpg.
	assert.Equal(t, "libreta.jpg", docs[0].FileName)
	assert.Equal(t, dialogue.DocumentStatusPending, docs[0].Status)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.engine.Handle(ctx, "s2", "", []dialogue.Attachment{
		{Kind: "documento", Name: "virus.exe", Content: []byte("nope")},
	})
	require.NoError(t, err)
	assert.False(t, reply.Approved)
	assert.Contains(t, reply.Message, "❌")
	assert.NotEqual(t, dialogue.StatePostEnrollment, f.state(t, "s2"))
}

func TestAdvisorContactCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Handle(ctx, "s3", "asesor", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateConnectingAdvisor, f.state(t, "s3"))

	// Name alone is kept and the phone is requested.
	reply, err := f.engine.Handle(ctx, "s3", "Me llamo Rosa Mendoza y mi telefono lo paso luego", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Rosa Mendoza")
	assert.Contains(t, reply.Message, "teléfono")

	// The phone completes the request.
	reply, err = f.engine.Handle(ctx, "s3", "999 123 456", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "999123456")
	assert.Contains(t, reply.Message, "30 minutos")

	sess, err := f.sessions.Load(ctx, "s3")
	require.NoError(t, err)
	assert.Equal(t, "Rosa Mendoza", sess.Name)
	assert.Equal(t, "999123456", sess.Phone)
}

func TestVerificationEchoesCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Handle(ctx, "s4", "verificar", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateVerifyingEnrollment, f.state(t, "s4"))

	// The dialogue echoes the identifier and stays in verification; the
	// lookup itself runs through the verification endpoint.
	reply, err := f.engine.Handle(ctx, "s4", "10000001", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "Estoy verificando")
	assert.Contains(t, reply.Message, "10000001")
	assert.Equal(t, dialogue.StateVerifyingEnrollment, f.state(t, "s4"))

	// An unknown code is echoed all the same, state unchanged.
	reply, err = f.engine.Handle(ctx, "s4", "99999999", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "99999999")
	assert.Equal(t, dialogue.StateVerifyingEnrollment, f.state(t, "s4"))

	// Not having the code still redirects to in-person service.
	_, err = f.engine.Handle(ctx, "s4", "no tengo el código", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateInPersonRedirect, f.state(t, "s4"))
}

func TestEnrollmentTopicFromStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Payment and student wording counts as an enrollment topic.
	_, err := f.engine.Handle(ctx, "p1", "quiero pagar la cuota de mi hijo", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateMenuEnrollment, f.state(t, "p1"))

	_, err = f.engine.Handle(ctx, "p2", "cuánto es el costo para un alumno nuevo", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateMenuEnrollment, f.state(t, "p2"))
}

func TestDeclineResetsToStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// "gracias" after a grade selection declines the upload offer.
	_, err := f.engine.Handle(ctx, "d1", "requisitos", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "d1", "1er grado", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "d1", "gracias", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateStart, f.state(t, "d1"))

	// "cancelar" while uploading backs out to the start menu.
	_, err = f.engine.Handle(ctx, "d2", "subir documentos", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "d2", "cancelar", nil)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateStart, f.state(t, "d2"))
}

func TestGreetingMidFlowKeepsContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Handle(ctx, "s5", "matricula", nil)
	require.NoError(t, err)

	reply, err := f.engine.Handle(ctx, "s5", "hola", nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(reply.Message, "continuar"))
	assert.Equal(t, dialogue.StateMenuEnrollment, f.state(t, "s5"))

	// A greeting after picking a grade keeps the recorded grade.
	_, err = f.engine.Handle(ctx, "s5", "requisitos", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "s5", "1er grado", nil)
	require.NoError(t, err)

	reply, err = f.engine.Handle(ctx, "s5", "hola", nil)
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "grado")
	assert.Equal(t, dialogue.StateGradeRequirements, f.state(t, "s5"))

	sess, err := f.sessions.Load(ctx, "s5")
	require.NoError(t, err)
	assert.Equal(t, "1er grado", sess.Context.SelectedGrade())
}

func TestHistoryRecordsTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Handle(ctx, "s6", "Hola", nil)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, "s6", "matricula", nil)
	require.NoError(t, err)

	turns, err := f.history.List(ctx, "s6")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "Hola", turns[0].UserMessage)
	assert.NotEmpty(t, turns[0].BotReply)
}
