// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes board and camera tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/board"
	"github.com/safal938/board28-sub000/internal/index"
	"github.com/safal938/board28-sub000/internal/itemservice"
	"github.com/safal938/board28-sub000/internal/layout"
)

// CardFormatURI is the resource URI of the card format contract.
const CardFormatURI = "board://card-format"

// Server wraps the MCP server with board tools.
type Server struct {
	mcp    *server.MCPServer
	items  *itemservice.Service
	board  *board.Board
	layout *layout.Layout
}

// New creates a new MCP server with all board tools registered.
func New(items *itemservice.Service, b *board.Board, l *layout.Layout) *Server {
	s := &Server{items: items, board: b, layout: l}

	s.mcp = server.NewMCPServer(
		"Board",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List board items, optionally filtered by kind or track."),
		mcp.WithString("kind", mcp.Description("Optional kind filter (event, lab, medication, ...)")),
		mcp.WithString("track", mcp.Description("Optional track filter")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Read one board item with its world position and size."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.getItem)

	s.mcp.AddTool(mcp.NewTool("center_on_item",
		mcp.WithDescription("Fly the camera to an item: zoom out, pan, then zoom in on it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
		mcp.WithNumber("final_zoom", mcp.Description("Zoom at the end of the flight (default 0.8)")),
		mcp.WithNumber("duration_ms", mcp.Description("Flight duration in milliseconds (default 1200)")),
	), s.centerOnItem)

	s.mcp.AddTool(mcp.NewTool("center_on_sub_element",
		mcp.WithDescription("Fly the camera to a named sub-element of an item, "+
			"falling back to the item itself when the sub-element has not been measured."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
		mcp.WithString("sub_element", mcp.Required(), mcp.Description("Sub-element name")),
		mcp.WithNumber("final_zoom", mcp.Description("Zoom at the end of the flight (default 1.2)")),
		mcp.WithNumber("duration_ms", mcp.Description("Flight duration in milliseconds (default 1200)")),
	), s.centerOnSubElement)

	s.mcp.AddTool(mcp.NewTool("get_viewport_center",
		mcp.WithDescription("Return the world point at the center of the viewing container and the current zoom, "+
			"or null while no client has reported its container size."),
	), s.getViewportCenter)

	s.mcp.AddTool(mcp.NewTool("reset_view",
		mcp.WithDescription("Cancel any camera flight and return to the identity viewport."),
	), s.resetView)

	s.mcp.AddTool(mcp.NewTool("layout_timeline",
		mcp.WithDescription("Place every dated event, lab and medication item on the timeline."),
	), s.layoutTimeline)

	s.mcp.AddTool(mcp.NewTool("get_card_contract",
		mcp.WithDescription("Returns the card file format contract. "+
			"Call this before writing card files into the board directory."),
	), s.getCardContract)

	s.mcp.AddResource(
		mcp.NewResource(CardFormatURI, "Card Format Contract",
			mcp.WithResourceDescription("Markdown card file format with YAML frontmatter used by the board."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCardFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func durationArg(req mcp.CallToolRequest) time.Duration {
	return time.Duration(req.GetFloat("duration_ms", 0)) * time.Millisecond
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.items.List(ctx, index.ListFilter{
		Kind:  req.GetString("kind", ""),
		Track: req.GetString("track", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"items": items, "total": total})
}

func (s *Server) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	it, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(it)
}

func (s *Server) centerOnItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	started, err := s.board.CenterOnItem(ctx, id, req.GetFloat("final_zoom", 0), durationArg(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !started {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("centering on: %s", id)), nil
}

func (s *Server) centerOnSubElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := req.RequireString("sub_element")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	started, err := s.board.CenterOnSubElement(ctx, id, sub, req.GetFloat("final_zoom", 0), durationArg(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !started {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("centering on: %s#%s", id, sub)), nil
}

func (s *Server) getViewportCenter(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.board.ViewportCenterWorld(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c == nil {
		return mcp.NewToolResultText("null"), nil
	}
	return jsonResult(c)
}

func (s *Server) resetView(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.board.ResetView(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("view reset"), nil
}

func (s *Server) layoutTimeline(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.layout.Place(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getCardContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CardFormatContract), nil
}

func (s *Server) readCardFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CardFormatURI,
			MIMEType: "text/markdown",
			Text:     CardFormatContract,
		},
	}, nil
}
