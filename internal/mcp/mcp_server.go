// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const projectPathDescription = "Path to the Salesforce project (defaults to the current directory and its Git root)."

// NewMCPServer initializes and configures the metadata MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.PublishManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Salesforce Metadata Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: count_metadata ---
	s.AddTool(mcp.NewTool("count_metadata",
		mcp.WithDescription("Count the metadata components in a Salesforce project."),
		mcp.WithString("project_path", mcp.Description(projectPathDescription)),
	), h.handleCountMetadata)

	// --- 2. Tool: metadata_report ---
	s.AddTool(mcp.NewTool("metadata_report",
		mcp.WithDescription("Break down the metadata components of a Salesforce project by type, sorted by type name."),
		mcp.WithString("project_path", mcp.Description(projectPathDescription)),
	), h.handleMetadataReport)

	// --- 3. Tool: locate_project ---
	s.AddTool(mcp.NewTool("locate_project",
		mcp.WithDescription("Find the Salesforce project root, its layout and its source directory."),
		mcp.WithString("project_path", mcp.Description(projectPathDescription)),
	), h.handleLocateProject)

	// --- 4. Tool: list_metadata_types ---
	s.AddTool(mcp.NewTool("list_metadata_types",
		mcp.WithDescription("List the classification rules that map files and folders to metadata types."),
		mcp.WithString("kind", mcp.Description("Only return rules of this kind."), mcp.Enum("suffix", "unit", "bundle", "object-child")),
	), h.handleListTypes)

	// --- 5. Tool: published_summaries ---
	s.AddTool(mcp.NewTool("published_summaries",
		mcp.WithDescription("List the latest published total for every source root in the publish database."),
	), h.handlePublishedSummaries)

	return s
}

// StartMCPServer starts the metadata MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.PublishManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
