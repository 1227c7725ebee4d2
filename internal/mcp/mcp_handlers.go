package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/metacount/core"
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.PublishManager
}

// configFor narrows the search to project_path when the caller supplies one.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	if p := request.GetString("project_path", ""); p != "" {
		return h.baseCfg.WithCandidates(p)
	}
	return h.baseCfg.Clone()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCountMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	_, report, err := core.ScanProject(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
	}
	return jsonResult(schema.CountOutput{SourceRoot: report.SourceRoot, Total: report.Total})
}

func (h *toolHandler) handleMetadataReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	_, report, err := core.ScanProject(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(schema.NewReportOutput(report, contract.DateTimeFormat))
}

func (h *toolHandler) handleLocateProject(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	root, err := core.LocateSourceRoot(cfg.Candidates)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("locate failed: %v", err)), nil
	}
	return jsonResult(root)
}

func (h *toolHandler) handleListTypes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := core.DefaultTypeMap()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("type table unavailable: %v", err)), nil
	}
	rules := types.Merge(h.baseCfg.TypeOverrides, h.baseCfg.ObjectChildOverrides).Rules()

	if kind := request.GetString("kind", ""); kind != "" {
		filtered := rules[:0:0]
		for _, r := range rules {
			if string(r.Kind) == kind {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}
	return jsonResult(rules)
}

func (h *toolHandler) handlePublishedSummaries(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetReportStore() == nil {
		return mcp.NewToolResultError("publish store is not initialized"), nil
	}
	summaries, err := h.mgr.GetReportStore().GetSummaries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read published summaries: %v", err)), nil
	}
	return jsonResult(summaries)
}
