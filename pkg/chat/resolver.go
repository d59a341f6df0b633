// Package chat resolves free-text task-management messages into tool calls
// and renders the assistant replies.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/taskchat/pkg/task"
	"github.com/hazyhaar/taskchat/pkg/tool"
)

// Resolver turns chat messages into tool invocations. It holds no per-user
// state; one resolver serves all users concurrently.
type Resolver struct {
	reg    *tool.Registry
	logger *slog.Logger
}

// NewResolver builds a resolver over an already-constructed registry.
func NewResolver(reg *tool.Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{reg: reg, logger: logger}
}

// helpText answers messages with no recognizable intent.
const helpText = `🤖 I'm your Todo AI assistant! I can help you manage tasks. Try:
• "Add a task to buy groceries"
• "Show me all my tasks"
• "Mark task 1 as complete"
• "Delete task 2"
• "What's pending?"`

// Reply resolves one chat message for the given user and returns the reply
// text. Unextractable parameters and missing tasks become user-facing ❌
// replies; any other failure is returned as an error for the transport to
// report.
func (r *Resolver) Reply(ctx context.Context, userID, message string) (string, error) {
	msg := Normalize(message)
	intent := Classify(msg)
	r.logger.Debug("message classified", "user_id", userID, "intent", intent.String())

	switch intent {
	case IntentAdd:
		return r.replyAdd(ctx, userID, msg, message)
	case IntentList:
		return r.replyList(ctx, userID, msg)
	case IntentComplete:
		return r.replyComplete(ctx, userID, msg)
	case IntentDelete:
		return r.replyDelete(ctx, userID, msg)
	case IntentUpdate:
		return r.replyUpdate(ctx, userID, msg)
	default:
		return helpText, nil
	}
}

func (r *Resolver) replyAdd(ctx context.Context, userID, msg, raw string) (string, error) {
	title := ExtractTitle(msg)
	if title == "" {
		return "❌ Could not extract task title. Please specify what task to add.", nil
	}
	res, err := r.reg.Call(ctx, tool.KindAddTask, &task.AddRequest{
		Owner:       userID,
		Title:       title,
		Description: "Added via chat: " + raw,
	})
	if err != nil {
		return "", fmt.Errorf("add_task: %w", err)
	}
	return "✅ Task added: " + res.(task.Receipt).Title, nil
}

func (r *Resolver) replyList(ctx context.Context, userID, msg string) (string, error) {
	status := ListStatus(msg)
	res, err := r.reg.Call(ctx, tool.KindListTasks, &task.ListRequest{Owner: userID, Status: status})
	if err != nil {
		return "", fmt.Errorf("list_tasks: %w", err)
	}
	items := res.([]task.Item)
	if len(items) == 0 {
		return fmt.Sprintf("📭 No %s tasks found.", status), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Your %s tasks:", status)
	for _, item := range items {
		mark := "⏳"
		if item.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n• %d: %s (%s)", item.ID, item.Title, mark)
	}
	return b.String(), nil
}

func (r *Resolver) replyComplete(ctx context.Context, userID, msg string) (string, error) {
	id, ok := ExtractTaskID(msg)
	if !ok {
		return "❌ Could not identify task ID. Please specify which task to complete.", nil
	}
	res, err := r.reg.Call(ctx, tool.KindCompleteTask, &task.CompleteRequest{Owner: userID, TaskID: id})
	if reply, handled := notFoundReply(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", fmt.Errorf("complete_task: %w", err)
	}
	return "✅ Task completed: " + res.(task.Receipt).Title, nil
}

func (r *Resolver) replyDelete(ctx context.Context, userID, msg string) (string, error) {
	id, ok := ExtractTaskID(msg)
	if !ok {
		return "❌ Could not identify task ID. Please specify which task to delete.", nil
	}
	res, err := r.reg.Call(ctx, tool.KindDeleteTask, &task.DeleteRequest{Owner: userID, TaskID: id})
	if reply, handled := notFoundReply(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", fmt.Errorf("delete_task: %w", err)
	}
	return "🗑️ Task deleted: " + res.(task.Receipt).Title, nil
}

func (r *Resolver) replyUpdate(ctx context.Context, userID, msg string) (string, error) {
	id, ok := ExtractTaskID(msg)
	title := ExtractTitle(msg)
	if !ok || title == "" {
		return "❌ Could not identify task ID or new title.", nil
	}
	res, err := r.reg.Call(ctx, tool.KindUpdateTask, &task.UpdateRequest{Owner: userID, TaskID: id, Title: title})
	if reply, handled := notFoundReply(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", fmt.Errorf("update_task: %w", err)
	}
	return "✏️ Task updated: " + res.(task.Receipt).Title, nil
}

// notFoundReply renders a missing or foreign task as a failure reply,
// quoting the error text verbatim after the marker.
func notFoundReply(err error) (string, bool) {
	var nf *task.NotFoundError
	if errors.As(err, &nf) {
		return "❌ " + err.Error(), true
	}
	return "", false
}
