// Package mcpserver exposes calculator sessions as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"nickandperla.net/calc/internal/session"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/pkg/calculator"
)

// Server name and version reported to MCP clients.
const (
	Name    = "calc"
	Version = "0.1.0"
)

// Tool names
const (
	ToolPress = "calculator_press"
	ToolState = "calculator_state"
	ToolReset = "calculator_reset"
)

// Server serves calculator sessions to MCP clients.
type Server struct {
	mcpServer *server.MCPServer
	sessions  *session.Manager
	logger    *slog.Logger
}

// New creates a Server with its tools registered.
func New(sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		mcpServer: server.NewMCPServer(Name, Version),
		sessions:  sessions,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdin and stdout until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("serving MCP over stdio")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session", mcp.Required(), mcp.Description("Session name"))

	s.mcpServer.AddTool(mcp.NewTool(ToolPress,
		mcp.WithDescription("Press calculator keys: digits, + - * /, parentheses and = to calculate. "+
			"Without a session a new one is created; its name is in the reply."),
		mcp.WithString("session", mcp.Description("Session name")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press in order, e.g. \"2(3+4)=\"")),
	), s.handlePress)

	s.mcpServer.AddTool(mcp.NewTool(ToolState,
		mcp.WithDescription("Show the calculator state of a session"),
		sessionArg,
	), s.handleState)

	s.mcpServer.AddTool(mcp.NewTool(ToolReset,
		mcp.WithDescription("Clear a calculator session"),
		sessionArg,
	), s.handleReset)
}

func (s *Server) handlePress(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session", "")
	if id == "" {
		id = store.NewSessionID()
		s.logger.Info("created session", "session", id)
	}
	keys := mcp.ParseString(req, "keys", "")

	st, err := s.sessions.Press(id, keys)
	if err != nil {
		s.logger.Warn("press failed", "session", id, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to press keys: %v", err)), nil
	}
	return mcp.NewToolResultText(Describe(id, st)), nil
}

func (s *Server) handleState(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session", "")
	if id == "" {
		return mcp.NewToolResultError("session parameter is required"), nil
	}

	st, err := s.sessions.State(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load session: %v", err)), nil
	}
	return mcp.NewToolResultText(Describe(id, st)), nil
}

func (s *Server) handleReset(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session", "")
	if id == "" {
		return mcp.NewToolResultError("session parameter is required"), nil
	}

	if err := s.sessions.Reset(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reset session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s cleared.", id)), nil
}

// Describe renders a session's state as one "field: value" line per field.
func Describe(id string, st calculator.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session: %s\n", id)
	fmt.Fprintf(&b, "status: %s\n", st.Status)
	fmt.Fprintf(&b, "expression: %s\n", st.Expression)
	fmt.Fprintf(&b, "result: %s\n", st.Result)
	fmt.Fprintf(&b, "error: %s", st.ErrorMessage)
	return b.String()
}
