package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Deps holds dependencies for MCP handlers
type Deps struct {
	Translator *translator.Translator
	Stats      *stats.Counter
}

// Handler handles MCP tool calls
type Handler struct {
	translator *translator.Translator
	stats      *stats.Counter
}

// Result is the JSON payload returned by convert_html.
type Result struct {
	Markdown string `json:"markdown"`
	Words    int    `json:"words"`
	Tokens   int    `json:"tokens"`
}

// New creates an MCP server with registered tools
func New(deps Deps) *server.MCPServer {
	s := server.NewMCPServer("wpmarkdown", Version)
	RegisterTools(s, NewHandler(deps))
	return s
}

// NewHandler creates a Handler, using the default translator when none is
// given.
func NewHandler(deps Deps) *Handler {
	h := &Handler{translator: deps.Translator, stats: deps.Stats}
	if h.translator == nil {
		h.translator = translator.New()
	}
	return h
}

// RegisterTools registers the convert_html tool.
func RegisterTools(s *server.MCPServer, handler *Handler) {
	s.AddTool(
		mcp.NewTool("convert_html",
			mcp.WithDescription("Convert the HTML body of a WordPress post to Markdown"),
			mcp.WithString("html",
				mcp.Required(),
				mcp.Description("Post content HTML"),
			),
			mcp.WithBoolean("save_scraped_images",
				mcp.Description("Rewrite image references to the relative images/ folder"),
			),
		),
		handler.HandleConvertHTML,
	)
}

// HandleConvertHTML implements the convert_html tool.
func (h *Handler) HandleConvertHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	html := request.GetString("html", "")
	if html == "" {
		return mcp.NewToolResultError("html is required"), nil
	}

	md, err := h.translator.Translate(html, translator.Options{
		SaveScrapedImages: request.GetBool("save_scraped_images", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error converting HTML: %v", err)), nil
	}

	s := h.stats.Count(md)
	resultJSON, err := json.MarshalIndent(Result{Markdown: md, Words: s.Words, Tokens: s.Tokens}, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}
