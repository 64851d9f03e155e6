package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
)

// ══════════════════════════════════════════════════════════════════════════════
// HISTORY REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// HistoryRepo stores conversation turns in the conversation_history table.
type HistoryRepo struct {
	conn *Connection
}

// NewHistoryRepo creates a history repository over an established connection.
func NewHistoryRepo(conn *Connection) *HistoryRepo {
	return &HistoryRepo{conn: conn}
}

// Append records one turn at the end of the session's log.
func (r *HistoryRepo) Append(ctx context.Context, sessionID string, turn dialogue.Turn) error {
	if sessionID == "" {
		return dialogue.ErrEmptySessionID
	}
	_, err := r.conn.Exec(ctx, `
		INSERT INTO conversation_history (id, session_id, user_message, bot_reply, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), sessionID, turn.UserMessage, turn.BotReply, turn.At,
	)
	if err != nil {
		return fmt.Errorf("postgres: append history: %w", err)
	}
	return nil
}

// List returns the session's turns in chronological order.
func (r *HistoryRepo) List(ctx context.Context, sessionID string) ([]dialogue.Turn, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT user_message, bot_reply, created_at
		FROM conversation_history
		WHERE session_id = $1
		ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list history: %w", err)
	}
	defer rows.Close()

	var turns []dialogue.Turn
	for rows.Next() {
		var t dialogue.Turn
		if err := rows.Scan(&t.UserMessage, &t.BotReply, &t.At); err != nil {
			return nil, fmt.Errorf("postgres: scan history row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate history rows: %w", err)
	}
	return turns, nil
}

// DeleteBySession removes the session's log.
func (r *HistoryRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.conn.Exec(ctx,
		`DELETE FROM conversation_history WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("postgres: delete history: %w", err)
	}
	return nil
}

// Count returns the total number of recorded turns.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM conversation_history`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count history: %w", err)
	}
	return n, nil
}
