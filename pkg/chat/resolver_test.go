package chat

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/taskchat/pkg/task"
	"github.com/hazyhaar/taskchat/pkg/tool"
)

func setupResolver(t *testing.T) (*Resolver, *task.Store) {
	t.Helper()
	store, err := task.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	reg, err := tool.New(task.Tools(store)...)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(reg, logger), store
}

func reply(t *testing.T, r *Resolver, user, msg string) string {
	t.Helper()
	got, err := r.Reply(context.Background(), user, msg)
	if err != nil {
		t.Fatalf("Reply(%q): %v", msg, err)
	}
	return got
}

func TestReply_AddTask(t *testing.T) {
	r, store := setupResolver(t)
	got := reply(t, r, "u1", "Add a task to buy groceries")
	if want := "✅ Task added: buy groceries"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}

	// The stored description keeps the raw message, not the normalized one.
	stored, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := "Added via chat: Add a task to buy groceries"; stored.Description != want {
		t.Errorf("description = %q, want %q", stored.Description, want)
	}
}

func TestReply_AddFallbackTitle(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "add and then list")
	if want := "✅ Task added: add and then list"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_AddStripsAccents(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "Add a task to buy CRÈME fraîche")
	if want := "✅ Task added: buy creme fraiche"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_ListFlow(t *testing.T) {
	r, _ := setupResolver(t)
	reply(t, r, "u1", "add a task to buy milk")
	reply(t, r, "u1", "add a task to walk the dog")

	if got, want := reply(t, r, "u1", "complete task 1"), "✅ Task completed: buy milk"; got != want {
		t.Errorf("complete reply = %q, want %q", got, want)
	}

	got := reply(t, r, "u1", "show me my tasks")
	want := "📋 Your all tasks:\n• 1: buy milk (✅)\n• 2: walk the dog (⏳)"
	if got != want {
		t.Errorf("list reply = %q, want %q", got, want)
	}

	got = reply(t, r, "u1", "show pending tasks")
	want = "📋 Your pending tasks:\n• 2: walk the dog (⏳)"
	if got != want {
		t.Errorf("pending reply = %q, want %q", got, want)
	}

	got = reply(t, r, "u1", "show completed tasks")
	want = "📋 Your completed tasks:\n• 1: buy milk (✅)"
	if got != want {
		t.Errorf("completed reply = %q, want %q", got, want)
	}
}

func TestReply_ListEmpty(t *testing.T) {
	r, _ := setupResolver(t)
	if got, want := reply(t, r, "u1", "show me my tasks"), "📭 No all tasks found."; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
	if got, want := reply(t, r, "u1", "show pending tasks"), "📭 No pending tasks found."; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_CompleteWithoutID(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "complete it please")
	want := "❌ Could not identify task ID. Please specify which task to complete."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_CompleteMissingTask(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "complete task 41")
	if want := "❌ task not found"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_OwnershipHidden(t *testing.T) {
	r, _ := setupResolver(t)
	reply(t, r, "u1", "add a task to buy milk")

	if got, want := reply(t, r, "u2", "complete task 1"), "❌ task not found"; got != want {
		t.Errorf("foreign complete reply = %q, want %q", got, want)
	}
	if got, want := reply(t, r, "u1", "show pending tasks"), "📋 Your pending tasks:\n• 1: buy milk (⏳)"; got != want {
		t.Errorf("owner list reply = %q, want %q", got, want)
	}
}

func TestReply_Delete(t *testing.T) {
	r, _ := setupResolver(t)
	reply(t, r, "u1", "add a task to buy milk")

	if got, want := reply(t, r, "u1", "Delete task 1"), "🗑️ Task deleted: buy milk"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
	if got, want := reply(t, r, "u1", "show me my tasks"), "📭 No all tasks found."; got != want {
		t.Errorf("list after delete = %q, want %q", got, want)
	}
}

func TestReply_DeleteWithoutID(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "remove that thing")
	want := "❌ Could not identify task ID. Please specify which task to delete."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_Update(t *testing.T) {
	r, store := setupResolver(t)
	reply(t, r, "u1", "add a task to buy milk")

	// No title rule matches an update message, so the whole normalized
	// message becomes the new title.
	got := reply(t, r, "u1", "update task 1 buy oat milk")
	if want := "✏️ Task updated: update task 1 buy oat milk"; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}

	stored, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Title != "update task 1 buy oat milk" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestReply_UpdateWithoutID(t *testing.T) {
	r, _ := setupResolver(t)
	got := reply(t, r, "u1", "update my plans")
	if want := "❌ Could not identify task ID or new title."; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestReply_Help(t *testing.T) {
	r, _ := setupResolver(t)
	for _, msg := range []string{"hello there", "what's pending?", ""} {
		if got := reply(t, r, "u1", msg); got != helpText {
			t.Errorf("Reply(%q) = %q, want help text", msg, got)
		}
	}
}
