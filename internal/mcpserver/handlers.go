package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/cachelens/internal/callgraph"
)

type searchParams struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	matches := s.engine.Search(p.Query)
	ancestors := s.engine.ExpandAncestors(matches)
	return jsonResult(map[string]interface{}{
		"matches":   matches,
		"ancestors": ancestors,
	})
}

func (s *Server) handleResolveEntry(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	id, err := s.engine.ResolveEntry(p.Query)
	if err != nil {
		suggestions := s.engine.SuggestEntry(p.Query, 5)
		return jsonResult(map[string]interface{}{
			"resolved":    false,
			"error":       err.Error(),
			"suggestions": suggestions,
		})
	}
	return jsonResult(map[string]interface{}{
		"resolved": true,
		"node":     id,
	})
}

type nodeParams struct {
	File     string `json:"file"`
	Function string `json:"function"`
}

func (p nodeParams) id() callgraph.NodeID {
	return callgraph.NodeID{File: p.File, Function: p.Function}
}

func parseNodeParams(req *mcp.CallToolRequest) (nodeParams, error) {
	var p nodeParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return p, fmt.Errorf("invalid parameters: %w", err)
	}
	return p, nil
}

func (s *Server) handleSubtreeFrom(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseNodeParams(req)
	if err != nil {
		return nil, err
	}
	tree := s.engine.SubtreeFrom(p.id())
	return jsonResult(viewTree(tree))
}

func (s *Server) handleCallers(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseNodeParams(req)
	if err != nil {
		return nil, err
	}
	return jsonResult(viewNodes(s.engine.Callers(p.id())))
}

func (s *Server) handleCallees(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseNodeParams(req)
	if err != nil {
		return nil, err
	}
	return jsonResult(viewNodes(s.engine.Callees(p.id())))
}

func (s *Server) handleDisassemble(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseNodeParams(req)
	if err != nil {
		return nil, err
	}
	instrs, err := s.engine.Disassemble(ctx, p.File, p.Function)
	if err != nil {
		return jsonResult(map[string]interface{}{"error": err.Error()})
	}
	return jsonResult(instrs)
}

func (s *Server) handleSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.engine.Summary())
}
