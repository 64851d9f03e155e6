package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════
// Document intake
// ══════════════════════════════════════════════════════════════

var (
	// ErrFileTooLarge - the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("engine: file too large")

	// ErrFileType - the uploaded file's extension is not accepted.
	ErrFileType = errors.New("engine: file type not allowed")
)

// FileStore persists raw document bytes and returns the stored location.
type FileStore interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

// UploadPolicy bounds what the intake accepts. Extensionless uploads are
// treated as mobile camera shots and stored as .jpg.
type UploadPolicy struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// DefaultUploadPolicy returns the built-in upload limits: 10 MB per file,
// documents and common image formats.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxFileSize: 10 << 20,
		AllowedExtensions: []string{
			".pdf", ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".heic", ".heif",
		},
	}
}

// allows reports whether the file name passes the extension policy.
func (p UploadPolicy) allows(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return true
	}
	for _, allowed := range p.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// normalizeName appends .jpg to extensionless names.
func (p UploadPolicy) normalizeName(name string) string {
	if path.Ext(name) == "" {
		return name + ".jpg"
	}
	return name
}

// DocumentIntake validates uploads, writes the bytes to the file store and
// records document rows.
type DocumentIntake struct {
	docs   dialogue.DocumentStore
	files  FileStore
	policy UploadPolicy
	log    *logger.Logger
}

// NewDocumentIntake builds a document intake with the given policy.
func NewDocumentIntake(docs dialogue.DocumentStore, files FileStore, policy UploadPolicy, log *logger.Logger) *DocumentIntake {
	if policy.MaxFileSize == 0 {
		policy = DefaultUploadPolicy()
	}
	if log == nil {
		log = logger.Default()
	}
	return &DocumentIntake{docs: docs, files: files, policy: policy, log: log.With(logger.Component("intake"))}
}

// Accept validates and stores one attachment for the session.
func (di *DocumentIntake) Accept(ctx context.Context, sessionID string, att dialogue.Attachment) (dialogue.Document, error) {
	name := di.policy.normalizeName(att.Name)
	if !di.policy.allows(name) {
		return dialogue.Document{}, fmt.Errorf("%w: %s", ErrFileType, name)
	}
	if int64(len(att.Content)) > di.policy.MaxFileSize {
		return dialogue.Document{}, fmt.Errorf("%w: máximo %dMB", ErrFileTooLarge, di.policy.MaxFileSize>>20)
	}

	id := uuid.NewString()
	storedPath, err := di.files.Save(ctx, fmt.Sprintf("%s_%s", id, name), att.Content)
	if err != nil {
		return dialogue.Document{}, fmt.Errorf("store file: %w", err)
	}

	doc := dialogue.NewDocument(id, sessionID, att.Kind, name, storedPath)
	if err := di.docs.Save(ctx, doc); err != nil {
		return dialogue.Document{}, fmt.Errorf("record document: %w", err)
	}

	di.log.Info("document stored",
		logger.SessionID(sessionID),
		logger.DocumentID(id),
		logger.String("file_name", name))
	return doc, nil
}

// ══════════════════════════════════════════════════════════════
// Attachment turns
// ══════════════════════════════════════════════════════════════

// handleAttachments runs the file upload path of a turn. Every stored file
// approves the enrollment and moves the session to post_enrollment; a
// validation failure reports the reason and leaves the state alone.
func (e *Engine) handleAttachments(ctx context.Context, sess *dialogue.Session, attachments []dialogue.Attachment) (dialogue.Reply, error) {
	if e.intake == nil {
		return dialogue.TextReply(msgNoValidDocuments), nil
	}

	stored := 0
	for _, att := range attachments {
		if _, err := e.intake.Accept(ctx, sess.ID, att); err != nil {
			if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrFileType) {
				return dialogue.TextReply(fmt.Sprintf("❌ Error: %v", err)), nil
			}
			return dialogue.Reply{}, err
		}
		stored++
	}
	if stored == 0 {
		return dialogue.TextReply(msgNoValidDocuments), nil
	}

	grade := sess.Context.SelectedGrade()
	if grade == "" {
		grade = "el grado seleccionado"
	}
	sess.State = dialogue.StatePostEnrollment

	reply := dialogue.OptionsReply(e.catalog.approvedMessage(grade, stored), postEnrollmentMenu())
	reply.Approved = true
	reply.Grade = grade
	reply.DocumentsReceived = stored
	return reply, nil
}
