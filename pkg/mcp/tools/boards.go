package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// boardSummary is the listing projection of a board.
type boardSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	QueryCount  int    `json:"query_count"`
	URL         string `json:"url,omitempty"`
}

// listBoardsResponse is the response format for the list_boards tool.
type listBoardsResponse struct {
	Environment string         `json:"environment"`
	Boards      []boardSummary `json:"boards"`
	Count       int            `json:"count"`
}

// boardQueryDetail is one query panel in a get_board response.
type boardQueryDetail struct {
	Caption    string `json:"caption,omitempty"`
	Dataset    string `json:"dataset,omitempty"`
	QueryID    string `json:"query_id,omitempty"`
	QueryStyle string `json:"query_style,omitempty"`
}

// getBoardResponse is the response format for the get_board tool.
type getBoardResponse struct {
	Environment string             `json:"environment"`
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Style       string             `json:"style,omitempty"`
	Queries     []boardQueryDetail `json:"queries"`
	URL         string             `json:"url,omitempty"`
}

// boardURL builds the UI deep link for a board.
func boardURL(uiURL, boardID string) string {
	if uiURL == "" || boardID == "" {
		return ""
	}
	return fmt.Sprintf("%s/boards/%s", uiURL, boardID)
}

// RegisterBoardTools registers board MCP tools.
func RegisterBoardTools(s *server.MCPServer, deps *Deps) {
	registerListBoardsTool(s, deps)
	registerGetBoardTool(s, deps)
}

// registerListBoardsTool adds the list_boards tool.
func registerListBoardsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"list_boards",
		mcp.WithDescription(
			"List saved boards (dashboards) in a Honeycomb environment. "+
				"Boards collect related queries; use get_board for panel details. "+
				"Example: list_boards(environment='production')",
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		environment := resolveEnvironment(req, deps)

		boards, err := deps.API.ListBoards(ctx, environment)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to list boards: %w", err)
		}

		summaries := make([]boardSummary, 0, len(boards))
		for _, b := range boards {
			summaries = append(summaries, boardSummary{
				ID:          b.ID,
				Name:        b.Name,
				Description: b.Description,
				QueryCount:  len(b.Queries),
				URL:         boardURL(deps.API.UIURL(), b.ID),
			})
		}

		return marshalResult(listBoardsResponse{
			Environment: environment,
			Boards:      summaries,
			Count:       len(summaries),
		})
	})
}

// registerGetBoardTool adds the get_board tool.
func registerGetBoardTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"get_board",
		mcp.WithDescription(
			"Get a single board with its query panels. "+
				"Example: get_board(board_id='abc123')",
		),
		mcp.WithString(
			"board_id",
			mcp.Required(),
			mcp.Description("Board ID (from list_boards)"),
		),
		mcp.WithString(
			"environment",
			mcp.Description("Honeycomb environment name. Defaults to the only configured environment."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		boardID, err := req.RequireString("board_id")
		if err != nil {
			return nil, err
		}
		boardID = trimString(boardID)
		if boardID == "" {
			return NewErrorResult("invalid_parameters", "parameter 'board_id' cannot be empty"), nil
		}
		environment := resolveEnvironment(req, deps)

		board, err := deps.API.GetBoard(ctx, environment, boardID)
		if err != nil {
			if errResult := NewUpstreamErrorResult(err); errResult != nil {
				return errResult, nil
			}
			return nil, fmt.Errorf("failed to get board: %w", err)
		}

		queries := make([]boardQueryDetail, 0, len(board.Queries))
		for _, q := range board.Queries {
			queries = append(queries, boardQueryDetail{
				Caption:    q.Caption,
				Dataset:    q.Dataset,
				QueryID:    q.QueryID,
				QueryStyle: q.QueryStyle,
			})
		}

		return marshalResult(getBoardResponse{
			Environment: environment,
			ID:          board.ID,
			Name:        board.Name,
			Description: board.Description,
			Style:       board.Style,
			Queries:     queries,
			URL:         boardURL(deps.API.UIURL(), board.ID),
		})
	})
}
