// Package api exposes the chat resolver and the task tools over HTTP and
// MCP. Both transports dispatch into the same kit.Endpoint values, so the
// two surfaces cannot diverge.
package api

import (
	"context"

	"github.com/hazyhaar/taskchat/pkg/chat"
	"github.com/hazyhaar/taskchat/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type chatRequest struct {
	UserID         string
	Message        string
	ConversationID int64
}

type chatResponse struct {
	ConversationID int64  `json:"conversation_id"`
	Response       string `json:"response"`
}

type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// chatEndpoint resolves one chat message. The conversation id is echoed
// back, defaulting to 1: the field is reserved for dialogue state the
// resolver does not keep yet.
func chatEndpoint(res *chat.Resolver) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*chatRequest)
		text, err := res.Reply(ctx, req.UserID, req.Message)
		if err != nil {
			return nil, err
		}
		convID := req.ConversationID
		if convID <= 0 {
			convID = 1
		}
		return chatResponse{ConversationID: convID, Response: text}, nil
	}
}

func rootEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return rootResponse{Message: "Todo AI Chatbot API", Status: "running"}, nil
	}
}

func healthEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return healthResponse{Status: "healthy"}, nil
	}
}
