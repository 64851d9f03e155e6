package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CONVERSATION HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS conversation_history (
    id           UUID PRIMARY KEY,
    session_id   TEXT NOT NULL,
    user_message TEXT NOT NULL,
    bot_reply    TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_session_created
    ON conversation_history (session_id, created_at);
`

const migration001Down = `
DROP TABLE IF EXISTS conversation_history;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: DOCUMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS documents (
    id          UUID PRIMARY KEY,
    session_id  TEXT NOT NULL,
    kind        TEXT NOT NULL,
    file_name   TEXT NOT NULL,
    path        TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'pendiente',
    uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_documents_session_uploaded
    ON documents (session_id, uploaded_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS documents;
`
