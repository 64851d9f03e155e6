package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/application/engine"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/persistence/memory"
)

// apiResponse mirrors the JSON envelope for assertions.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	sessions := memory.NewSessionStore()
	history := memory.NewHistoryStore()
	documents := memory.NewDocumentStore()
	files := memory.NewFileStore()

	students := roster.Slice{
		{
			FullName:             "QUISPE HUAMAN MARIA FERNANDA",
			Grade:                "1er grado",
			Code:                 "10000001",
			EnrollmentFeePending: true,
			PendingInstallments:  2,
		},
		{
			FullName: "TORRES VEGA ANA SOFIA",
			Grade:    "2do grado",
			Code:     "10000003",
		},
	}

	intake := engine.NewDocumentIntake(documents, files, engine.DefaultUploadPolicy(), nil)
	eng := engine.New(engine.Options{
		Sessions: sessions,
		History:  history,
		Intake:   intake,
	})

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // keep tests deterministic

	return NewServer(cfg, Dependencies{
		Engine:          eng,
		Sessions:        sessions,
		History:         history,
		Documents:       documents,
		Roster:          students,
		Catalog:         engine.DefaultCatalog(),
		SessionCounter:  sessions,
		HistoryCounter:  history,
		DocumentCounter: documents,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestChatEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{Message: "hola"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	var reply struct {
		Message   string `json:"message"`
		Kind      string `json:"kind"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reply))

	assert.Contains(t, reply.Message, "Asistente Virtual del I.E.P. Barton")
	assert.Equal(t, "options", reply.Kind)
	assert.NotEmpty(t, reply.SessionID)
}

func TestChatRequiresMessageOrFiles(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_request", resp.Error.Code)
}

func TestChatRejectsLongMessage(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{
		Message: strings.Repeat("a", 1001),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "message_too_long", resp.Error.Code)
}

func TestChatRejectsBadBase64(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{
		Files: []ChatFile{{Name: "dni.jpg", Content: "no es base64!!!"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_file", resp.Error.Code)
}

func TestChatFileUploadStoresDocument(t *testing.T) {
	s := newTestServer(t)

	content := base64.StdEncoding.EncodeToString([]byte("imagen del dni"))
	rec, resp := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{
		Files: []ChatFile{{Kind: "dni", Name: "dni.jpg", Content: content}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	var reply struct {
		SessionID         string `json:"session_id"`
		Approved          bool   `json:"approved"`
		DocumentsReceived int    `json:"documents_received"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reply))
	assert.True(t, reply.Approved)
	assert.Equal(t, 1, reply.DocumentsReceived)

	rec, resp = doJSON(t, s, http.MethodGet, "/sessions/"+reply.SessionID+"/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &docs))
	assert.Equal(t, 1, docs.Total)
}

func TestVerifyEnrollment(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/verify-enrollment", VerifyRequest{Code: "10000001"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body VerifyResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))

	require.True(t, body.Found)
	require.NotNil(t, body.Student)
	assert.Equal(t, "QUISPE HUAMAN MARIA FERNANDA", body.Student.Name)
	assert.Equal(t, "1er grado", body.Student.Grade)
	// Matrícula S/300 plus 2 installments of S/150.
	assert.Equal(t, 600, body.Total)
	assert.Contains(t, body.Message, "Tiene pagos pendientes")
}

func TestVerifyEnrollmentNoPending(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/verify-enrollment", VerifyRequest{Code: "10000003"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body VerifyResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))

	require.True(t, body.Found)
	assert.Zero(t, body.Total)
	assert.Empty(t, body.Items)
	assert.Contains(t, body.Message, "No tiene pagos pendientes")
}

func TestVerifyEnrollmentUnknownCode(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/verify-enrollment", VerifyRequest{Code: "99999999"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body VerifyResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))

	assert.False(t, body.Found)
	assert.Contains(t, body.Message, "No se encontró ningún alumno")
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		SessionID string `json:"session_id"`
		State     string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, "start", created.State)

	// A turn leaves history behind.
	rec, _ = doJSON(t, s, http.MethodPost, "/chat", ChatRequest{
		Message:   "hola",
		SessionID: created.SessionID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, s, http.MethodGet, "/sessions/"+created.SessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hist struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &hist))
	assert.Equal(t, 1, hist.Total)

	rec, resp = doJSON(t, s, http.MethodDelete, "/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &deleted))
	assert.Equal(t, "deleted", deleted.Status)

	rec, resp = doJSON(t, s, http.MethodGet, "/sessions/"+created.SessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &hist))
	assert.Zero(t, hist.Total)
}

func TestRequirementsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodGet, "/requirements/1er%20grado", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Grade        string `json:"grade"`
		Requirements string `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "1er grado", body.Grade)
	assert.Contains(t, body.Requirements, "DNI del menor")

	rec, resp = doJSON(t, s, http.MethodGet, "/requirements/6to%20grado", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
}

func TestCostsAndGrades(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodGet, "/costs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var costs struct {
		Costos map[string]int `json:"costos"`
		Year   int            `json:"year"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &costs))
	assert.Equal(t, 300, costs.Costos["matricula"])
	assert.Equal(t, 150, costs.Costos["pension_mensual"])
	assert.Equal(t, 2024, costs.Year)

	rec, resp = doJSON(t, s, http.MethodGet, "/grades", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var grades struct {
		Grades []string `json:"grades"`
		Total  int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &grades))
	assert.Equal(t, 4, grades.Total)
	assert.Contains(t, grades.Grades, "1er grado")
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Generate some traffic first.
	for i := 0; i < 3; i++ {
		rec, _ := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{
			Message: fmt.Sprintf("hola %d", i),
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, resp := doJSON(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		StudentsLoaded int `json:"students_loaded"`
		TotalSessions  int `json:"total_sessions"`
		TotalMessages  int `json:"total_messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 2, stats.StudentsLoaded)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 3, stats.TotalMessages)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	var body struct {
		Status         string `json:"status"`
		StudentsLoaded int    `json:"students_loaded"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 2, body.StudentsLoaded)
}
