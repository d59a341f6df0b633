package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazyhaar/taskchat/pkg/tool"
)

// Typed requests for the task endpoints. External callers reach these
// through the registry's name-based Dispatch, which decodes keyword
// arguments; internal callers build them directly and use Call.

type AddRequest struct {
	Owner       string
	Title       string
	Description string
}

type ListRequest struct {
	Owner  string
	Status Status
}

type CompleteRequest struct {
	Owner  string
	TaskID int64
}

// UpdateRequest carries replacement values. An empty Title or Description
// keeps the stored value; there is no way to clear a field through this
// tool.
type UpdateRequest struct {
	Owner       string
	TaskID      int64
	Title       string
	Description string
}

type DeleteRequest struct {
	Owner  string
	TaskID int64
}

// Receipt is the result of a mutating tool call.
type Receipt struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

// Item is one row of a list_tasks result.
type Item struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Tools returns the five built-in task tools bound to the store, ready to
// hand to tool.New.
func Tools(store *Store) []tool.Tool {
	return []tool.Tool{
		addTool(store),
		listTool(store),
		completeTool(store),
		updateTool(store),
		deleteTool(store),
	}
}

func addTool(store *Store) tool.Tool {
	return tool.Tool{
		Kind:        tool.KindAddTask,
		Description: "Create a new task",
		Schema: tool.ObjectSchema(map[string]tool.Property{
			"user_id":     {Type: "string", Description: "User the task belongs to"},
			"title":       {Type: "string", Description: "Task title"},
			"description": {Type: "string", Description: "Optional task details"},
		}, "user_id", "title"),
		Decode: func(args tool.Args) (any, error) {
			req := &AddRequest{}
			req.Owner, _ = args.GetString("user_id")
			req.Title, _ = args.GetString("title")
			req.Description, _ = args.GetString("description")
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			req := request.(*AddRequest)
			if strings.TrimSpace(req.Title) == "" {
				return nil, &tool.ValidationError{
					Tool:   tool.KindAddTask.String(),
					Field:  "title",
					Reason: "must not be empty",
				}
			}
			now := time.Now().UTC()
			t := &Task{
				Owner:       req.Owner,
				Title:       req.Title,
				Description: req.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			id, err := store.Create(ctx, t)
			if err != nil {
				return nil, fmt.Errorf("add task: %w", err)
			}
			return Receipt{TaskID: id, Status: "created", Title: t.Title}, nil
		},
	}
}

func listTool(store *Store) tool.Tool {
	return tool.Tool{
		Kind:        tool.KindListTasks,
		Description: "Retrieve tasks",
		Schema: tool.ObjectSchema(map[string]tool.Property{
			"user_id": {Type: "string", Description: "User the tasks belong to"},
			"status": {
				Type:        "string",
				Description: "Filter by completion state",
				Enum:        []string{"all", "pending", "completed"},
			},
		}, "user_id"),
		Decode: func(args tool.Args) (any, error) {
			req := &ListRequest{Status: StatusAll}
			req.Owner, _ = args.GetString("user_id")
			if status, ok := args.GetString("status"); ok && status != "" {
				req.Status = Status(status)
			}
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			req := request.(*ListRequest)
			tasks, err := store.List(ctx, req.Owner)
			if err != nil {
				return nil, fmt.Errorf("list tasks: %w", err)
			}
			items := make([]Item, 0, len(tasks))
			for _, t := range tasks {
				switch req.Status {
				case StatusPending:
					if t.Completed {
						continue
					}
				case StatusCompleted:
					if !t.Completed {
						continue
					}
				}
				items = append(items, Item{ID: t.ID, Title: t.Title, Completed: t.Completed})
			}
			return items, nil
		},
	}
}

func completeTool(store *Store) tool.Tool {
	return tool.Tool{
		Kind:        tool.KindCompleteTask,
		Description: "Mark task as complete",
		Schema: tool.ObjectSchema(map[string]tool.Property{
			"user_id": {Type: "string", Description: "User the task belongs to"},
			"task_id": {Type: "integer", Description: "Task to complete"},
		}, "user_id", "task_id"),
		Decode: func(args tool.Args) (any, error) {
			req := &CompleteRequest{}
			req.Owner, _ = args.GetString("user_id")
			req.TaskID, _ = args.GetInt("task_id")
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			req := request.(*CompleteRequest)
			t, err := fetchOwned(ctx, store, req.TaskID, req.Owner)
			if err != nil {
				return nil, err
			}
			t.Completed = true
			t.UpdatedAt = time.Now().UTC()
			if err := store.Update(ctx, t); err != nil {
				return nil, err
			}
			return Receipt{TaskID: t.ID, Status: "completed", Title: t.Title}, nil
		},
	}
}

func updateTool(store *Store) tool.Tool {
	return tool.Tool{
		Kind:        tool.KindUpdateTask,
		Description: "Update task title or description",
		Schema: tool.ObjectSchema(map[string]tool.Property{
			"user_id":     {Type: "string", Description: "User the task belongs to"},
			"task_id":     {Type: "integer", Description: "Task to update"},
			"title":       {Type: "string", Description: "New title, empty keeps the current one"},
			"description": {Type: "string", Description: "New description, empty keeps the current one"},
		}, "user_id", "task_id"),
		Decode: func(args tool.Args) (any, error) {
			req := &UpdateRequest{}
			req.Owner, _ = args.GetString("user_id")
			req.TaskID, _ = args.GetInt("task_id")
			req.Title, _ = args.GetString("title")
			req.Description, _ = args.GetString("description")
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			req := request.(*UpdateRequest)
			t, err := fetchOwned(ctx, store, req.TaskID, req.Owner)
			if err != nil {
				return nil, err
			}
			if req.Title != "" {
				t.Title = req.Title
			}
			if req.Description != "" {
				t.Description = req.Description
			}
			t.UpdatedAt = time.Now().UTC()
			if err := store.Update(ctx, t); err != nil {
				return nil, err
			}
			return Receipt{TaskID: t.ID, Status: "updated", Title: t.Title}, nil
		},
	}
}

func deleteTool(store *Store) tool.Tool {
	return tool.Tool{
		Kind:        tool.KindDeleteTask,
		Description: "Delete a task",
		Schema: tool.ObjectSchema(map[string]tool.Property{
			"user_id": {Type: "string", Description: "User the task belongs to"},
			"task_id": {Type: "integer", Description: "Task to delete"},
		}, "user_id", "task_id"),
		Decode: func(args tool.Args) (any, error) {
			req := &DeleteRequest{}
			req.Owner, _ = args.GetString("user_id")
			req.TaskID, _ = args.GetInt("task_id")
			return req, nil
		},
		Endpoint: func(ctx context.Context, request any) (any, error) {
			req := request.(*DeleteRequest)
			t, err := fetchOwned(ctx, store, req.TaskID, req.Owner)
			if err != nil {
				return nil, err
			}
			if err := store.Delete(ctx, t.ID); err != nil {
				return nil, err
			}
			return Receipt{TaskID: t.ID, Status: "deleted", Title: t.Title}, nil
		},
	}
}

// fetchOwned loads a task and enforces ownership. A task owned by someone
// else is indistinguishable from a missing one.
func fetchOwned(ctx context.Context, store *Store, id int64, owner string) (Task, error) {
	t, err := store.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.Owner != owner {
		return Task{}, &NotFoundError{ID: id}
	}
	return t, nil
}
