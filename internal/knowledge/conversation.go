package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Exchange is one message of a persisted conversation.
type Exchange struct {
	Role    string // "user" or "assistant"
	Content string
}

// Conversation is one persisted chat conversation, already filtered to
// successful messages by the store.
type Conversation struct {
	Title     string
	Exchanges []Exchange
}

// ConversationStore reads persisted conversations. Interface defined here,
// on the consumer side; internal/history provides the Postgres
// implementation.
type ConversationStore interface {
	// ListRecent returns up to limit successful conversations created after
	// since, newest first.
	ListRecent(ctx context.Context, limit int, since time.Time) ([]Conversation, error)
}

// minExchanges is the qualification bar for a conversation fragment:
// at least two question/answer pairs, so the fragment teaches something.
const minExchanges = 4

// liteMessageCap truncates individual messages in constrained mode.
const liteMessageCap = 200

// ConversationAdapter emits one fragment per retained past conversation so
// retrieval can surface previously successful answers.
type ConversationAdapter struct {
	store      ConversationStore
	windowDays int
	limit      int
	lite       bool
	maxChars   int
	logger     *slog.Logger
}

// NewConversationAdapter creates a conversation history adapter.
func NewConversationAdapter(store ConversationStore, windowDays, limit int, lite bool, maxChars int, logger *slog.Logger) *ConversationAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationAdapter{
		store:      store,
		windowDays: windowDays,
		limit:      limit,
		lite:       lite,
		maxChars:   maxChars,
		logger:     logger,
	}
}

// Name implements Adapter.
func (*ConversationAdapter) Name() string { return "conversation" }

// Collect implements Adapter.
func (a *ConversationAdapter) Collect(ctx context.Context) ([]Fragment, error) {
	if a.store == nil {
		return nil, nil
	}

	since := time.Now().AddDate(0, 0, -a.windowDays)
	conversations, err := a.store.ListRecent(ctx, a.limit, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent conversations: %w", err)
	}

	fragments := make([]Fragment, 0, len(conversations))
	for _, conv := range conversations {
		if len(conv.Exchanges) < minExchanges {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Conversation: %s\n\n", conv.Title)
		for _, ex := range conv.Exchanges {
			role := "Assistant"
			if ex.Role == "user" {
				role = "User"
			}
			content := ex.Content
			if a.lite {
				content = Truncate(content, liteMessageCap)
			}
			fmt.Fprintf(&b, "%s: %s\n\n", role, content)
		}

		source := "Conversation: " + conv.Title
		if f, ok := NewFragment(b.String(), source, CategoryConversation, a.maxChars); ok {
			fragments = append(fragments, f)
		}
	}

	a.logger.Debug("collected conversation fragments",
		"count", len(fragments), "window_days", a.windowDays)
	return fragments, nil
}
