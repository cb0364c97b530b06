// Package mcp exposes contact extraction and the stored contact collection as
// Model Context Protocol tools, plus a resource listing recent contacts.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
	"github.com/joseph-ayodele/card-scanner/internal/export"
	"github.com/joseph-ayodele/card-scanner/internal/pipeline"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

// ServerConfig holds the collaborators the tools run against.
type ServerConfig struct {
	Extractor *contact.Extractor
	Contacts  repository.ContactRepository
	Processor *pipeline.Processor
	Exporter  *export.Service
	Version   string
	Logger    *slog.Logger
}

// maxListLimit caps list_contacts pages.
const maxListLimit = 200

// NewServer creates an MCP server with all card scanner tools registered.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := server.NewMCPServer(
		"card-scanner",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerExtractTool(s, cfg.Extractor)
	registerSaveTool(s, cfg.Processor, cfg.Contacts, cfg.Logger)
	registerListTool(s, cfg.Contacts)
	registerExportTool(s, cfg.Exporter)
	registerRecentResource(s, cfg.Contacts)
	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func registerExtractTool(s *server.MCPServer, ex *contact.Extractor) {
	tool := mcp.NewTool("extract_contact",
		mcp.WithDescription("Extract name, company, title, phone, email, website and address from the OCR text of a business card. Nothing is stored."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw multi-line OCR text of the card"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		if len(text) > ex.MaxInputBytes() {
			return mcp.NewToolResultError(fmt.Sprintf("text exceeds %d bytes", ex.MaxInputBytes())), nil
		}
		return jsonResult(ex.Extract(text))
	})
}

func registerSaveTool(s *server.MCPServer, proc *pipeline.Processor, contacts repository.ContactRepository, logger *slog.Logger) {
	tool := mcp.NewTool("save_contact",
		mcp.WithDescription("Extract a contact from business card text and add it to the saved contacts. Returns the stored contact with its id."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw multi-line OCR text of the card"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes to keep with the contact"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		_, c, err := proc.ProcessText(ctx, text)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
		}
		if notes := req.GetString("notes", ""); notes != "" {
			c, err = contacts.Update(ctx, c.ID, entity.ContactPatch{Notes: &notes})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("save notes failed: %v", err)), nil
			}
		}
		logger.Info("mcp.contact.saved", "contact_id", c.ID)
		return jsonResult(c)
	})
}

func registerListTool(s *server.MCPServer, contacts repository.ContactRepository) {
	tool := mcp.NewTool("list_contacts",
		mcp.WithDescription("List saved contacts, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of contacts (default: 50, max: 200)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of contacts to skip"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 50)
		if limit <= 0 || limit > maxListLimit {
			limit = maxListLimit
		}
		offset := req.GetInt("offset", 0)
		if offset < 0 {
			offset = 0
		}
		cs, err := contacts.List(ctx, repository.ListOpts{Limit: limit, Offset: offset})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		if cs == nil {
			cs = []*entity.Contact{}
		}
		return jsonResult(cs)
	})
}

func registerExportTool(s *server.MCPServer, exporter *export.Service) {
	tool := mcp.NewTool("export_contacts",
		mcp.WithDescription("Export all saved contacts as CSV, vCard or an Excel workbook (returned base64 encoded)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("format",
			mcp.Description("Export format (default: csv)"),
			mcp.Enum("csv", "vcf", "xlsx"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format, err := constants.ParseExportFormat(req.GetString("format", "csv"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := exporter.Export(ctx, format)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
		}
		if format == constants.ExportXLSX {
			return mcp.NewToolResultResource(
				fmt.Sprintf("%s (%d contacts)", out.FileName, out.Rows),
				mcp.BlobResourceContents{
					URI:      "cardscan://export/" + out.FileName,
					MIMEType: out.ContentType,
					Blob:     base64.StdEncoding.EncodeToString(out.Data),
				},
			), nil
		}
		return mcp.NewToolResultText(string(out.Data)), nil
	})
}

func registerRecentResource(s *server.MCPServer, contacts repository.ContactRepository) {
	resource := mcp.NewResource(
		"cardscan://contacts/recent",
		"Recent Contacts",
		mcp.WithResourceDescription("The 20 most recently saved contacts."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cs, err := contacts.List(ctx, repository.ListOpts{Limit: 20})
		if err != nil {
			return nil, fmt.Errorf("listing recent contacts: %w", err)
		}
		recs := make([]contact.Record, len(cs))
		for i, c := range cs {
			recs[i] = c.Record()
			recs[i].Raw = ""
		}
		data, _ := json.MarshalIndent(recs, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
