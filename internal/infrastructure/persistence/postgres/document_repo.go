package postgres

import (
	"context"
	"fmt"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// DocumentRepo stores uploaded-document metadata in the documents table.
// The file bytes themselves live in the file store, only the path is
// recorded here.
type DocumentRepo struct {
	conn *Connection
}

// NewDocumentRepo creates a document repository over an established connection.
func NewDocumentRepo(conn *Connection) *DocumentRepo {
	return &DocumentRepo{conn: conn}
}

// Save records one document.
func (r *DocumentRepo) Save(ctx context.Context, d dialogue.Document) error {
	if d.SessionID == "" {
		return dialogue.ErrEmptySessionID
	}
	_, err := r.conn.Exec(ctx, `
		INSERT INTO documents (id, session_id, kind, file_name, path, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.SessionID, d.Kind, d.FileName, d.Path, d.Status, d.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save document: %w", err)
	}
	return nil
}

// ListBySession returns the session's documents, most recent first.
func (r *DocumentRepo) ListBySession(ctx context.Context, sessionID string) ([]dialogue.Document, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, session_id, kind, file_name, path, status, uploaded_at
		FROM documents
		WHERE session_id = $1
		ORDER BY uploaded_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list documents: %w", err)
	}
	defer rows.Close()

	var docs []dialogue.Document
	for rows.Next() {
		var d dialogue.Document
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Kind, &d.FileName, &d.Path, &d.Status, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate document rows: %w", err)
	}
	return docs, nil
}

// DeleteBySession removes the session's document records.
func (r *DocumentRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM documents WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("postgres: delete documents: %w", err)
	}
	return nil
}

// Count returns the total number of stored documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count documents: %w", err)
	}
	return n, nil
}
