package chat

import (
	"testing"

	"github.com/hazyhaar/taskchat/pkg/task"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"add a task to buy groceries", "buy groceries"},
		{"add task call mom", "call mom"},
		{"create a task to water plants", "water plants"},
		{"create task send invoices", "send invoices"},
		{"buy milk to my todo", "buy milk"},
		{"push the release to task", "push the release"},
		// No rule matches: the whole message is the title.
		{"buy milk", "buy milk"},
		{"add and then list", "add and then list"},
		{"Add a task to Buy Groceries", "Buy Groceries"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractTitle(tt.msg); got != tt.want {
			t.Errorf("ExtractTitle(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestExtractTaskID(t *testing.T) {
	tests := []struct {
		msg   string
		want  int64
		found bool
	}{
		{"complete task 42", 42, true},
		{"mark task 1 as complete", 1, true},
		{"delete 7", 7, true},
		{"task 3 then task 9", 3, true},
		{"update task 12 buy oat milk", 12, true},
		{"complete it", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, found := ExtractTaskID(tt.msg)
		if got != tt.want || found != tt.found {
			t.Errorf("ExtractTaskID(%q) = (%d, %v), want (%d, %v)", tt.msg, got, found, tt.want, tt.found)
		}
	}
}

func TestListStatus(t *testing.T) {
	tests := []struct {
		msg  string
		want task.Status
	}{
		{"show pending tasks", task.StatusPending},
		{"show completed tasks", task.StatusCompleted},
		{"list what i have done", task.StatusCompleted},
		{"show me all my tasks", task.StatusAll},
		{"list", task.StatusAll},
		// Pending wins when both filters appear.
		{"show pending and completed", task.StatusPending},
	}
	for _, tt := range tests {
		if got := ListStatus(tt.msg); got != tt.want {
			t.Errorf("ListStatus(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
