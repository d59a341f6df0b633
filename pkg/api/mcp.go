package api

import (
	"context"
	"fmt"
	"sort"

	"github.com/hazyhaar/taskchat/pkg/chat"
	"github.com/hazyhaar/taskchat/pkg/kit"
	"github.com/hazyhaar/taskchat/pkg/tool"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools exposes every registry tool plus the chat endpoint on the
// MCP server. The MCP tool definitions are generated from the registry's own
// schemas, so the MCP contract cannot drift from the dispatch contract.
func RegisterMCPTools(srv *server.MCPServer, reg *tool.Registry, res *chat.Resolver) {
	for _, t := range reg.Tools() {
		registerRegistryTool(srv, reg, t)
	}
	registerChat(srv, res)
}

func registerRegistryTool(srv *server.MCPServer, reg *tool.Registry, t tool.Tool) {
	name := t.Name()
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, propName := range sortedKeys(t.Schema.Properties) {
		prop := t.Schema.Properties[propName]
		var popts []mcp.PropertyOption
		if contains(t.Schema.Required, propName) {
			popts = append(popts, mcp.Required())
		}
		if prop.Description != "" {
			popts = append(popts, mcp.Description(prop.Description))
		}
		switch prop.Type {
		case "integer", "number":
			opts = append(opts, mcp.WithNumber(propName, popts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(propName, popts...))
		default:
			if len(prop.Enum) > 0 {
				popts = append(popts, mcp.Enum(prop.Enum...))
			}
			opts = append(opts, mcp.WithString(propName, popts...))
		}
	}

	kit.RegisterMCPTool(srv, mcp.NewTool(name, opts...), func(ctx context.Context, request any) (any, error) {
		return reg.Dispatch(ctx, name, request.(tool.Args))
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := tool.Args(req.GetArguments())
		decoded := &kit.MCPDecodeResult{Request: args}
		if owner, ok := args.GetString("user_id"); ok {
			decoded.EnrichCtx = func(ctx context.Context) context.Context {
				return kit.WithUserID(ctx, owner)
			}
		}
		return decoded, nil
	})
}

func registerChat(srv *server.MCPServer, res *chat.Resolver) {
	t := mcp.NewTool("chat",
		mcp.WithDescription("Send a free-text task-management message (add, list, complete, update, delete) and get the assistant's reply."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User the tasks belong to")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The chat message")),
		mcp.WithNumber("conversation_id", mcp.Description("Conversation to continue, defaults to 1")),
	)

	kit.RegisterMCPTool(srv, t, chatEndpoint(res), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := tool.Args(req.GetArguments())
		userID, ok := args.GetString("user_id")
		if !ok || userID == "" {
			return nil, fmt.Errorf("user_id is required")
		}
		message, ok := args.GetString("message")
		if !ok {
			return nil, fmt.Errorf("message is required")
		}
		convID, _ := args.GetInt("conversation_id")
		return &kit.MCPDecodeResult{
			Request: &chatRequest{UserID: userID, Message: message, ConversationID: convID},
			EnrichCtx: func(ctx context.Context) context.Context {
				return kit.WithUserID(ctx, userID)
			},
		}, nil
	})
}

func sortedKeys(props map[string]tool.Property) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
