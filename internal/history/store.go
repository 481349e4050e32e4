// Package history persists and reads chat conversations.
//
// The retrieval side consumes it through knowledge.ConversationStore; the
// host application (or the CLI's --record flag) writes exchanges through
// Record so future corpus builds can learn from successful answers.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// DB is the subset of pgxpool.Pool the store needs.
// Consumer-defined so tests can substitute a mock.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// minSuccessfulMessages is the bar for a conversation to be worth learning
// from: at least two question/answer pairs without errors.
const minSuccessfulMessages = 4

// listRecentQuery returns the messages of recent conversations that have
// enough successful turns, newest conversation first, messages in order.
const listRecentQuery = `
SELECT c.id, c.title, m.role, m.content
FROM chat_conversations c
JOIN chat_messages m ON m.conversation_id = c.id
WHERE m.is_error = FALSE
  AND c.id IN (
      SELECT c2.id
      FROM chat_conversations c2
      JOIN chat_messages m2 ON m2.conversation_id = c2.id
      WHERE c2.created_at >= $1
        AND m2.is_error = FALSE
      GROUP BY c2.id
      HAVING COUNT(m2.id) >= $2
      ORDER BY MAX(c2.updated_at) DESC
      LIMIT $3
  )
ORDER BY c.updated_at DESC, c.id, m.created_at ASC
`

const insertConversation = `
INSERT INTO chat_conversations (id, title, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
`

const insertMessage = `
INSERT INTO chat_messages (id, conversation_id, role, content, is_error, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
`

// Store reads and writes conversations in PostgreSQL.
// Safe for concurrent use; all state lives in the database.
type Store struct {
	db     DB
	logger *slog.Logger
}

// New creates a conversation store.
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// ListRecent implements knowledge.ConversationStore. Conversations with
// errored turns contribute only their successful messages; conversations
// without enough successful turns are excluded entirely.
func (s *Store) ListRecent(ctx context.Context, limit int, since time.Time) ([]knowledge.Conversation, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, listRecentQuery, since, minSuccessfulMessages, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent conversations: %w", err)
	}
	defer rows.Close()

	var conversations []knowledge.Conversation
	var currentID string

	for rows.Next() {
		var id, title, role, content string
		if err := rows.Scan(&id, &title, &role, &content); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}

		if id != currentID {
			conversations = append(conversations, knowledge.Conversation{Title: title})
			currentID = id
		}
		last := &conversations[len(conversations)-1]
		last.Exchanges = append(last.Exchanges, knowledge.Exchange{Role: role, Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading conversation rows: %w", err)
	}

	s.logger.Debug("listed recent conversations", "count", len(conversations), "since", since)
	return conversations, nil
}

// Record persists one question/answer exchange as a new conversation.
// Title is derived from the question when empty.
func (s *Store) Record(ctx context.Context, title, question, answer string) error {
	if question == "" || answer == "" {
		return fmt.Errorf("recording exchange: question and answer must not be empty")
	}
	if title == "" {
		title = knowledge.Truncate(question, 80)
	}

	convID := uuid.NewString()
	if _, err := s.db.Exec(ctx, insertConversation, convID, title); err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	for _, msg := range []struct {
		role    string
		content string
	}{
		{"user", question},
		{"assistant", answer},
	} {
		if _, err := s.db.Exec(ctx, insertMessage,
			uuid.NewString(), convID, msg.role, msg.content, false); err != nil {
			return fmt.Errorf("inserting %s message: %w", msg.role, err)
		}
	}

	s.logger.Debug("recorded exchange", "conversation_id", convID, "title", title)
	return nil
}
