package dialogue

import (
	"context"
	"time"
)

// Attachment is an inbound file as received from the transport layer,
// already base64-decoded. Content is accepted without inspection.
type Attachment struct {
	// Kind is the client-declared document type ("dni", "libreta", ...).
	Kind string

	// Name is the client-supplied file name, possibly without extension.
	Name string

	// Content is the raw file bytes.
	Content []byte
}

// Document review states. Intake stores documents as pending; review is an
// external process.
const (
	DocumentStatusPending = "pendiente"
)

// Document is the stored metadata of one accepted attachment.
type Document struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewDocument builds a pending document stamped with the current UTC time.
func NewDocument(id, sessionID, kind, fileName, path string) Document {
	return Document{
		ID:         id,
		SessionID:  sessionID,
		Kind:       kind,
		FileName:   fileName,
		Path:       path,
		Status:     DocumentStatusPending,
		UploadedAt: time.Now().UTC(),
	}
}

// DocumentStore persists document metadata per session.
type DocumentStore interface {
	// Save records one document.
	Save(ctx context.Context, d Document) error

	// ListBySession returns the session's documents, most recent first.
	ListBySession(ctx context.Context, sessionID string) ([]Document, error)

	// DeleteBySession removes the session's document records.
	DeleteBySession(ctx context.Context, sessionID string) error
}
