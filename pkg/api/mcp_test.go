package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/taskchat/pkg/chat"
	"github.com/hazyhaar/taskchat/pkg/task"
	"github.com/hazyhaar/taskchat/pkg/tool"
	"github.com/mark3labs/mcp-go/server"
)

func setupMCP(t *testing.T) *server.MCPServer {
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
	srv := server.NewMCPServer("taskchat", "test", server.WithToolCapabilities(false))
	RegisterMCPTools(srv, reg, chat.NewResolver(reg, logger))
	return srv
}

// rpc sends one JSON-RPC message to the server and returns the marshaled
// response, the same way the QUIC stream loop does.
func rpc(t *testing.T, srv *server.MCPServer, message string) string {
	t.Helper()
	resp := srv.HandleMessage(context.Background(), json.RawMessage(message))
	if resp == nil {
		return ""
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func callTool(t *testing.T, srv *server.MCPServer, name, args string) string {
	t.Helper()
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, name, args)
	return rpc(t, srv, msg)
}

func TestMCP_ListsAllTools(t *testing.T) {
	srv := setupMCP(t)
	resp := rpc(t, srv, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	for _, name := range []string{"add_task", "list_tasks", "complete_task", "update_task", "delete_task", "chat"} {
		if !strings.Contains(resp, `"`+name+`"`) {
			t.Errorf("tools/list missing %q: %s", name, resp)
		}
	}
}

func TestMCP_AddTask(t *testing.T) {
	srv := setupMCP(t)
	resp := callTool(t, srv, "add_task", `{"user_id":"u1","title":"buy milk"}`)
	if strings.Contains(resp, `"isError":true`) {
		t.Fatalf("add_task returned error: %s", resp)
	}
	if !strings.Contains(resp, "created") || !strings.Contains(resp, "buy milk") {
		t.Errorf("add_task result = %s", resp)
	}
}

func TestMCP_ValidationSurfacesAsToolError(t *testing.T) {
	srv := setupMCP(t)
	resp := callTool(t, srv, "add_task", `{"user_id":"u1"}`)
	if !strings.Contains(resp, `"isError":true`) {
		t.Fatalf("add_task without title did not error: %s", resp)
	}
	if !strings.Contains(resp, "title") {
		t.Errorf("error does not name the missing argument: %s", resp)
	}

	resp = callTool(t, srv, "list_tasks", `{"user_id":"u1"}`)
	if !strings.Contains(resp, `"text":"[]"`) {
		t.Errorf("rejected call still created a task: %s", resp)
	}
}

func TestMCP_CompleteMissingTask(t *testing.T) {
	srv := setupMCP(t)
	resp := callTool(t, srv, "complete_task", `{"user_id":"u1","task_id":99}`)
	if !strings.Contains(resp, `"isError":true`) || !strings.Contains(resp, "task not found") {
		t.Errorf("complete_task result = %s", resp)
	}
}

func TestMCP_ChatTool(t *testing.T) {
	srv := setupMCP(t)
	resp := callTool(t, srv, "chat", `{"user_id":"u1","message":"Add a task to buy milk"}`)
	if strings.Contains(resp, `"isError":true`) {
		t.Fatalf("chat returned error: %s", resp)
	}
	if !strings.Contains(resp, "Task added") {
		t.Errorf("chat result = %s", resp)
	}

	resp = callTool(t, srv, "list_tasks", `{"user_id":"u1","status":"pending"}`)
	if !strings.Contains(resp, "buy milk") {
		t.Errorf("list after chat = %s", resp)
	}
}
