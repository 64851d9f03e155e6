// Package http exposes the enrollment assistant over REST for the mobile
// client.
package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/logger"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Barton Enrollment Assistant API",
		"version":     "v1",
		"description": "REST API for the I.E.P. Barton enrollment chatbot",
		"endpoints": map[string]string{
			"health":   "/health",
			"chat":     "/chat",
			"verify":   "/verify-enrollment",
			"sessions": "/sessions",
			"grades":   "/grades",
			"costs":    "/costs",
			"stats":    "/stats",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	students := 0
	if s.deps.Roster != nil {
		students = len(s.deps.Roster.All())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"uptime":          s.Uptime().String(),
		"students_loaded": students,
		"office_open":     timeutil.IsOfficeOpen(time.Now()),
		"version":         "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ChatFile is one uploaded file in a chat request, content base64-encoded.
type ChatFile struct {
	// Kind is the declared document type ("dni", "libreta", ...).
	Kind string `json:"kind"`

	// Name is the original file name.
	Name string `json:"name"`

	// Content is the base64-encoded file body.
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat. Either a message or files must be
// present; an empty session id starts a new conversation.
type ChatRequest struct {
	Message   string     `json:"message"`
	SessionID string     `json:"session_id"`
	Files     []ChatFile `json:"files,omitempty"`
}

// handleChat handles POST /chat - one conversational turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Message == "" && len(req.Files) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "A message or files are required")
		return
	}
	if utf8.RuneCountInString(req.Message) > s.config.MaxMessageLength {
		writeJSONError(w, http.StatusBadRequest, "message_too_long",
			fmt.Sprintf("Message exceeds the maximum of %d characters", s.config.MaxMessageLength))
		return
	}

	attachments, err := decodeAttachments(req.Files)
	if err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_file", "Failed to decode uploaded file", err.Error())
		return
	}

	reply, err := s.deps.Engine.Handle(r.Context(), req.SessionID, req.Message, attachments)
	if err != nil {
		s.logger.Error("chat turn failed", logger.Err(err), logger.SessionID(req.SessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// decodeAttachments converts the base64 request files into raw attachments.
// Missing kind and name fall back to the generic document defaults.
func decodeAttachments(files []ChatFile) ([]dialogue.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	attachments := make([]dialogue.Attachment, 0, len(files))
	for i, f := range files {
		content, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return nil, fmt.Errorf("file %d (%s): %w", i, f.Name, err)
		}

		kind := f.Kind
		if kind == "" {
			kind = "documento"
		}
		name := f.Name
		if name == "" {
			name = "archivo"
		}

		attachments = append(attachments, dialogue.Attachment{
			Kind:    kind,
			Name:    name,
			Content: content,
		})
	}
	return attachments, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT VERIFICATION HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// VerifyRequest is the body of POST /verify-enrollment.
type VerifyRequest struct {
	Code string `json:"code"`
}

// VerifyResponse reports the enrollment status for a student code. The
// Spanish field names are the wire contract with the existing mobile client.
type VerifyResponse struct {
	Found   bool           `json:"encontrado"`
	Student *VerifyStudent `json:"alumno,omitempty"`
	Items   []string       `json:"pagos,omitempty"`
	Detail  []string       `json:"detalle,omitempty"`
	Total   int            `json:"total"`
	Message string         `json:"mensaje"`
}

// VerifyStudent is the student block of a successful verification.
type VerifyStudent struct {
	Grade string `json:"grado"`
	Name  string `json:"nombre"`
	Code  string `json:"codigo"`
}

// handleVerifyEnrollment handles POST /verify-enrollment - direct lookup by
// SIAGE code with the pending-payment breakdown.
func (s *Server) handleVerifyEnrollment(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "The SIAGE code is required")
		return
	}

	student, err := roster.FindByCode(s.deps.Roster, req.Code)
	if err != nil {
		if errors.Is(err, roster.ErrStudentNotFound) || errors.Is(err, roster.ErrEmptyCode) {
			writeJSON(w, http.StatusOK, VerifyResponse{
				Found:   false,
				Message: "No se encontró ningún alumno con ese código SIAGE. Por favor, verifica el código e intenta nuevamente.",
			})
			return
		}
		s.logger.Error("enrollment verification failed", logger.Err(err), logger.StudentCode(req.Code))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to verify enrollment")
		return
	}

	summary := roster.PendingPayments(student, s.deps.Catalog.Costs)

	statusText := "No tiene pagos pendientes"
	if summary.HasPending() {
		statusText = "Tiene pagos pendientes"
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Found: true,
		Student: &VerifyStudent{
			Grade: student.Grade,
			Name:  student.FullName,
			Code:  student.Code,
		},
		Items:   summary.Items,
		Detail:  summary.Detail,
		Total:   summary.Total,
		Message: fmt.Sprintf("✅ Estado de matrícula para %s: %s", student.FullName, statusText),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateSession handles POST /sessions - allocates a fresh session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Engine.CreateSession(r.Context())
	if err != nil {
		s.logger.Error("failed to create session", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID,
		"state":      sess.State,
		"created_at": sess.UpdatedAt,
	})
}

// handleGetSession handles GET /sessions/{id}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Session ID is required")
		return
	}

	sess, err := s.deps.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("failed to load session", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// handleDeleteSession handles DELETE /sessions/{id} - removes the session
// together with its history and document records.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Session ID is required")
		return
	}

	ctx := r.Context()

	if err := s.deps.Sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, dialogue.ErrSessionNotFound) {
		s.logger.Error("failed to delete session", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to delete session")
		return
	}
	if err := s.deps.History.DeleteBySession(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete history", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to delete session history")
		return
	}
	if err := s.deps.Documents.DeleteBySession(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete documents", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to delete session documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"status":     "deleted",
	})
}

// handleGetHistory handles GET /sessions/{id}/history.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Session ID is required")
		return
	}

	turns, err := s.deps.History.List(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("failed to list history", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load history")
		return
	}

	meta := &ResponseMeta{TotalCount: len(turns)}
	writeJSONWithMeta(w, r, http.StatusOK, map[string]interface{}{
		"history": turns,
		"total":   len(turns),
	}, meta)
}

// handleGetDocuments handles GET /sessions/{id}/documents.
func (s *Server) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Session ID is required")
		return
	}

	docs, err := s.deps.Documents.ListBySession(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("failed to list documents", logger.Err(err), logger.SessionID(sessionID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to load documents")
		return
	}

	meta := &ResponseMeta{TotalCount: len(docs)}
	writeJSONWithMeta(w, r, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	}, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRequirements handles GET /requirements/{grade}.
func (s *Server) handleGetRequirements(w http.ResponseWriter, r *http.Request) {
	grade := r.PathValue("grade")
	if grade == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Grade is required")
		return
	}

	requirements, ok := s.deps.Catalog.RequirementsFor(grade)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found",
			fmt.Sprintf("No requirements found for %s", grade))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"grade":        grade,
		"requirements": requirements,
	})
}

// handleGetCosts handles GET /costs. The fee keys match the legacy client.
func (s *Server) handleGetCosts(w http.ResponseWriter, r *http.Request) {
	costs := s.deps.Catalog.Costs
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"costos": map[string]int{
			"matricula":       costs.Enrollment,
			"pension_mensual": costs.MonthlyInstallment,
		},
		"year": s.deps.Catalog.Year,
	})
}

// handleGetGrades handles GET /grades.
func (s *Server) handleGetGrades(w http.ResponseWriter, r *http.Request) {
	grades := s.deps.Catalog.Grades
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grades": grades,
		"total":  len(grades),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStats handles GET /stats - store totals plus the effective limits.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":      s.Uptime().String(),
			"running":     s.IsRunning(),
			"office_open": timeutil.IsOfficeOpen(time.Now()),
		},
		"config": map[string]interface{}{
			"max_message_length": s.config.MaxMessageLength,
			"max_body_bytes":     s.config.MaxBodyBytes,
		},
	}

	if s.deps.Roster != nil {
		stats["students_loaded"] = len(s.deps.Roster.All())
	}

	counters := map[string]Counter{
		"total_sessions":  s.deps.SessionCounter,
		"total_messages":  s.deps.HistoryCounter,
		"total_documents": s.deps.DocumentCounter,
	}
	for key, counter := range counters {
		if counter == nil {
			continue
		}
		n, err := counter.Count(r.Context())
		if err != nil {
			s.logger.Warn("stats counter failed", logger.Err(err), logger.String("counter", key))
			continue
		}
		stats[key] = n
	}

	writeJSON(w, http.StatusOK, stats)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body into dst, writing the error response
// itself. Returns false when the handler should stop.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "A valid JSON body is required")
		return false
	}
	return true
}
