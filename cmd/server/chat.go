// CLAUDE:SUMMARY CLI subcommand that sends one chat message over MCP QUIC and prints the assistant reply.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hazyhaar/taskchat/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/mcp"
)

func cmdChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8000", "server address (host:port)")
	user := fs.String("user", "", "user the tasks belong to")
	insecure := fs.Bool("insecure", true, "skip TLS verification (self-signed dev certs)")
	list := fs.Bool("list", false, "list the tools the server exposes and exit")
	fs.Parse(args)

	message := strings.Join(fs.Args(), " ")
	if !*list && (*user == "" || message == "") {
		fmt.Fprintln(os.Stderr, "Usage: taskchat chat -user <id> [-addr host:port] <message>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cli := mcpquic.NewClient(*addr, mcpquic.ClientTLSConfig(*insecure))
	if err := cli.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "chat: connect %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer cli.Close()

	if *list {
		tools, err := cli.ListTools(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chat: list tools: %v\n", err)
			os.Exit(1)
		}
		for _, t := range tools.Tools {
			fmt.Printf("%s\t%s\n", t.Name, t.Description)
		}
		return
	}

	result, err := cli.CallTool(ctx, "chat", map[string]any{
		"user_id": *user,
		"message": message,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}

	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			fmt.Println(text.Text)
		}
	}
	if result.IsError {
		os.Exit(1)
	}
}
