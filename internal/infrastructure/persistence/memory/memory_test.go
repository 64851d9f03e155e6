package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
)

func TestSessionStoreLoadUnknownReturnsFresh(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "nope", sess.ID)
	assert.Equal(t, dialogue.StateStart, sess.State)
	assert.NotNil(t, sess.Context)
}

func TestSessionStoreSaveAndLoad(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := dialogue.NewSession("s1")
	sess.State = dialogue.StateGradeRequirements
	sess.Context.SetSelectedGrade("2do grado")
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateGradeRequirements, loaded.State)
	assert.Equal(t, "2do grado", loaded.Context.SelectedGrade())

	// The handed-out context must not alias the stored one.
	loaded.Context.SetSelectedGrade("5to grado")
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "2do grado", again.Context.SelectedGrade())
}

func TestSessionStoreSetContact(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := dialogue.NewSession("s1")
	sess.State = dialogue.StateConnectingAdvisor
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.SetContact(ctx, "s1", "Maria Quispe", ""))
	require.NoError(t, store.SetContact(ctx, "s1", "", "987654321"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Quispe", loaded.Name)
	assert.Equal(t, "987654321", loaded.Phone)
	// State and context stay untouched.
	assert.Equal(t, dialogue.StateConnectingAdvisor, loaded.State)

	// Empty arguments never clear stored values.
	require.NoError(t, store.SetContact(ctx, "s1", "", ""))
	loaded, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Quispe", loaded.Name)
	assert.Equal(t, "987654321", loaded.Phone)

	assert.ErrorIs(t, store.SetContact(ctx, "", "x", "y"), dialogue.ErrEmptySessionID)
}

func TestSessionStoreSetContactUnknownIDCreatesSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SetContact(ctx, "new", "Ana Torres", "912345678"))

	loaded, err := store.Load(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateStart, loaded.State)
	assert.Equal(t, "Ana Torres", loaded.Name)
	assert.Equal(t, "912345678", loaded.Phone)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dialogue.NewSession("s1")))
	require.NoError(t, store.Delete(ctx, "s1"))
	assert.ErrorIs(t, store.Delete(ctx, "s1"), dialogue.ErrSessionNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryStoreAppendListDelete(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", dialogue.NewTurn("hola", "menu")))
	require.NoError(t, store.Append(ctx, "s1", dialogue.NewTurn("1", "requisitos")))
	require.NoError(t, store.Append(ctx, "s2", dialogue.NewTurn("hola", "menu")))

	turns, err := store.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hola", turns[0].UserMessage)
	assert.Equal(t, "requisitos", turns[1].BotReply)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	require.NoError(t, store.DeleteBySession(ctx, "s1"))
	turns, err = store.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestDocumentStoreListMostRecentFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	first := dialogue.Document{ID: "d1", SessionID: "s1", FileName: "dni.jpg"}
	second := dialogue.Document{ID: "d2", SessionID: "s1", FileName: "libreta.pdf"}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	docs, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[0].ID)
	assert.Equal(t, "d1", docs[1].ID)

	require.NoError(t, store.DeleteBySession(ctx, "s1"))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore()

	path, err := store.Save(context.Background(), "dni.jpg", []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.Equal(t, "dni.jpg", path)

	content, ok := store.Read("dni.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte{0xFF, 0xD8}, content)

	_, ok = store.Read("missing.jpg")
	assert.False(t, ok)
}
