package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/growthsuite/gschat/internal/log"
)

// messageRow mirrors one row of the recent-conversations query.
type messageRow struct {
	id, title, role, content string
}

// mockRows implements pgx.Rows over a fixed row set.
type mockRows struct {
	rows []messageRow
	idx  int
	err  error
}

func (m *mockRows) Close()                                       {}
func (m *mockRows) Err() error                                   { return m.err }
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

func (m *mockRows) Next() bool {
	if m.idx >= len(m.rows) {
		return false
	}
	m.idx++
	return true
}

func (m *mockRows) Scan(dest ...any) error {
	row := m.rows[m.idx-1]
	*(dest[0].(*string)) = row.id
	*(dest[1].(*string)) = row.title
	*(dest[2].(*string)) = row.role
	*(dest[3].(*string)) = row.content
	return nil
}

// execCall records one Exec invocation.
type execCall struct {
	sql  string
	args []any
}

// mockDB implements DB.
type mockDB struct {
	rows     *mockRows
	queryErr error
	execErr  error
	queries  [][]any
	execs    []execCall
}

func (m *mockDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	m.queries = append(m.queries, args)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.rows, nil
}

func (m *mockDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, execCall{sql: sql, args: args})
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	return pgconn.CommandTag{}, nil
}

func TestListRecentGroupsByConversation(t *testing.T) {
	db := &mockDB{rows: &mockRows{rows: []messageRow{
		{"c1", "Invoice help", "user", "how do I create an invoice"},
		{"c1", "Invoice help", "assistant", "Go to Accounts > Sales Invoice."},
		{"c1", "Invoice help", "user", "and submit it?"},
		{"c1", "Invoice help", "assistant", "Save the draft, then press Submit."},
		{"c2", "Stock question", "user", "where do I see stock levels"},
		{"c2", "Stock question", "assistant", "Open the Stock Balance report."},
		{"c2", "Stock question", "user", "per warehouse?"},
		{"c2", "Stock question", "assistant", "Yes, filter by warehouse."},
	}}}

	store := New(db, log.NewNop())
	since := time.Now().AddDate(0, 0, -7)
	conversations, err := store.ListRecent(t.Context(), 10, since)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}

	if len(conversations) != 2 {
		t.Fatalf("conversation count = %d, want 2", len(conversations))
	}
	if conversations[0].Title != "Invoice help" {
		t.Errorf("conversations[0].Title = %q, want Invoice help", conversations[0].Title)
	}
	if len(conversations[0].Exchanges) != 4 {
		t.Fatalf("exchange count = %d, want 4", len(conversations[0].Exchanges))
	}
	first := conversations[0].Exchanges[0]
	if first.Role != "user" || first.Content != "how do I create an invoice" {
		t.Errorf("first exchange = %+v", first)
	}

	// Query receives the window start, the message floor, and the limit.
	if len(db.queries) != 1 {
		t.Fatalf("query count = %d, want 1", len(db.queries))
	}
	args := db.queries[0]
	if got := args[0].(time.Time); !got.Equal(since) {
		t.Errorf("since arg = %v, want %v", got, since)
	}
	if args[1].(int) != minSuccessfulMessages || args[2].(int) != 10 {
		t.Errorf("args = %v, want floor %d and limit 10", args[1:], minSuccessfulMessages)
	}
}

func TestListRecentZeroLimit(t *testing.T) {
	db := &mockDB{}
	store := New(db, log.NewNop())

	conversations, err := store.ListRecent(t.Context(), 0, time.Now())
	if err != nil || conversations != nil {
		t.Fatalf("ListRecent(0) = (%v, %v), want (nil, nil)", conversations, err)
	}
	if len(db.queries) != 0 {
		t.Error("zero limit should not hit the database")
	}
}

func TestListRecentQueryError(t *testing.T) {
	store := New(&mockDB{queryErr: errors.New("connection refused")}, log.NewNop())

	if _, err := store.ListRecent(t.Context(), 10, time.Now()); err == nil {
		t.Fatal("ListRecent() should return query error")
	}
}

func TestListRecentRowsError(t *testing.T) {
	db := &mockDB{rows: &mockRows{
		rows: []messageRow{{"c1", "t", "user", "hi"}},
		err:  errors.New("connection reset"),
	}}
	store := New(db, log.NewNop())

	if _, err := store.ListRecent(t.Context(), 10, time.Now()); err == nil {
		t.Fatal("ListRecent() should surface rows.Err()")
	}
}

func TestRecord(t *testing.T) {
	db := &mockDB{}
	store := New(db, log.NewNop())

	err := store.Record(t.Context(), "", "how do I create an invoice", "Go to Accounts > Sales Invoice.")
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	// One conversation insert plus two message inserts.
	if len(db.execs) != 3 {
		t.Fatalf("exec count = %d, want 3", len(db.execs))
	}
	if db.execs[0].args[1].(string) != "how do I create an invoice" {
		t.Errorf("derived title = %q", db.execs[0].args[1])
	}

	convID := db.execs[0].args[0].(string)
	for i, wantRole := range []string{"user", "assistant"} {
		call := db.execs[i+1]
		if call.args[1].(string) != convID {
			t.Errorf("message %d conversation id = %v, want %v", i, call.args[1], convID)
		}
		if call.args[2].(string) != wantRole {
			t.Errorf("message %d role = %v, want %s", i, call.args[2], wantRole)
		}
		if call.args[4].(bool) {
			t.Errorf("message %d recorded as error", i)
		}
	}
}

func TestRecordRejectsEmptyExchange(t *testing.T) {
	store := New(&mockDB{}, log.NewNop())

	if err := store.Record(t.Context(), "t", "", "answer"); err == nil {
		t.Error("Record() should reject empty question")
	}
	if err := store.Record(t.Context(), "t", "question", ""); err == nil {
		t.Error("Record() should reject empty answer")
	}
}

func TestRecordExecError(t *testing.T) {
	store := New(&mockDB{execErr: errors.New("disk full")}, log.NewNop())

	if err := store.Record(t.Context(), "t", "q", "a"); err == nil {
		t.Fatal("Record() should surface exec error")
	}
}
