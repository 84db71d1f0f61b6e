package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/homepro/siteforge/service"
	"github.com/homepro/siteforge/siteconfig"
)

const Version = "0.1.0"

type AddSectionRequest struct {
	PageSlug string         `json:"page_slug"` // Empty string targets the home page
	Type     string         `json:"type"`      // Section type tag
	Position *int           `json:"position,omitempty"`
	Content  map[string]any `json:"content,omitempty"` // Overrides merged into the type defaults
}

type UpdateSectionRequest struct {
	PageSlug  string         `json:"page_slug"`
	SectionID string         `json:"section_id"`
	Content   map[string]any `json:"content,omitempty"` // Shallow-merged, unspecified keys survive
	Styles    map[string]any `json:"styles,omitempty"`
	Enabled   *bool          `json:"enabled,omitempty"`
}

type RemoveSectionRequest struct {
	PageSlug  string `json:"page_slug"`
	SectionID string `json:"section_id"`
}

type ReorderSectionsRequest struct {
	PageSlug   string   `json:"page_slug"`
	SectionIDs []string `json:"section_ids"` // Full caller-computed order
}

type UpdateThemeRequest struct {
	Colors       map[string]string `json:"colors,omitempty"`
	Fonts        map[string]string `json:"fonts,omitempty"`
	BorderRadius string            `json:"border_radius,omitempty"`
}

type GetPageRequest struct {
	PageSlug string `json:"page_slug"`
}

// NewServer creates the MCP server exposing the section editor's mutation
// operations and read-only queries as tools. The structural tools carry the
// exact names the preview synchronizer watches for.
func NewServer(svc service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"SiteForge Editor",
		Version,
		server.WithToolCapabilities(false),
	)

	addSectionTool := mcp.NewTool("add_section",
		mcp.WithDescription("Add a section to a page, from a known type's defaults or with ad hoc content"),
		mcp.WithString("page_slug",
			mcp.Description("Slug of the page to modify; empty string is the home page"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Section type tag (e.g. 'hero', 'services')"),
		),
		mcp.WithNumber("position",
			mcp.Description("Insertion index; appended when omitted or out of bounds"),
		),
		mcp.WithObject("content",
			mcp.Description("Content overrides merged into the type's default content"),
		),
	)
	s.AddTool(addSectionTool, mcp.NewTypedToolHandler(getAddSectionHandler(svc)))

	updateSectionTool := mcp.NewTool("update_section",
		mcp.WithDescription("Merge a partial update into one section; unspecified content keys survive"),
		mcp.WithString("page_slug", mcp.Description("Slug of the page; empty string is the home page")),
		mcp.WithString("section_id", mcp.Required(), mcp.Description("Id of the section to update")),
		mcp.WithObject("content", mcp.Description("Content keys to set")),
		mcp.WithObject("styles", mcp.Description("Style keys to set")),
		mcp.WithBoolean("enabled", mcp.Description("Enable or disable the section")),
	)
	s.AddTool(updateSectionTool, mcp.NewTypedToolHandler(getUpdateSectionHandler(svc)))

	removeSectionTool := mcp.NewTool("remove_section",
		mcp.WithDescription("Remove one section from a page"),
		mcp.WithString("page_slug", mcp.Description("Slug of the page; empty string is the home page")),
		mcp.WithString("section_id", mcp.Required(), mcp.Description("Id of the section to remove")),
	)
	s.AddTool(removeSectionTool, mcp.NewTypedToolHandler(getRemoveSectionHandler(svc)))

	reorderSectionsTool := mcp.NewTool("reorder_sections",
		mcp.WithDescription("Replace a page's section order with the given id list"),
		mcp.WithString("page_slug", mcp.Description("Slug of the page; empty string is the home page")),
		mcp.WithArray("section_ids", mcp.Required(), mcp.Description("Section ids in the desired order")),
	)
	s.AddTool(reorderSectionsTool, mcp.NewTypedToolHandler(getReorderSectionsHandler(svc)))

	updateThemeTool := mcp.NewTool("update_theme",
		mcp.WithDescription("Merge a partial theme update; unspecified colors and fonts survive"),
		mcp.WithObject("colors", mcp.Description("Color keys: primary, accent, background, text, textMuted")),
		mcp.WithObject("fonts", mcp.Description("Font keys: heading, body")),
		mcp.WithString("border_radius", mcp.Description("One of none, sm, md, lg, full")),
	)
	s.AddTool(updateThemeTool, mcp.NewTypedToolHandler(getUpdateThemeHandler(svc)))

	listSectionTypesTool := mcp.NewTool("list_section_types",
		mcp.WithDescription("List the registered section types with their metadata"),
	)
	s.AddTool(listSectionTypesTool, mcp.NewTypedToolHandler(getListSectionTypesHandler(svc)))

	getPageTool := mcp.NewTool("get_page",
		mcp.WithDescription("Read the current rendered state of a page as markdown"),
		mcp.WithString("page_slug", mcp.Description("Slug of the page; empty string is the home page")),
	)
	s.AddTool(getPageTool, mcp.NewTypedToolHandler(getGetPageHandler(svc)))

	return s
}

func getAddSectionHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args AddSectionRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args AddSectionRequest) (*mcp.CallToolResult, error) {
		if args.Type == "" {
			return mcp.NewToolResultError("type is required"), nil
		}
		section, err := svc.AddSection(ctx, args.PageSlug, args.Type, args.Position, args.Content)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add section: %v", err)), nil
		}
		return jsonResult(section)
	}
}

func getUpdateSectionHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args UpdateSectionRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args UpdateSectionRequest) (*mcp.CallToolResult, error) {
		if args.SectionID == "" {
			return mcp.NewToolResultError("section_id is required"), nil
		}
		patch := siteconfig.SectionPatch{
			Content: args.Content,
			Styles:  args.Styles,
			Enabled: args.Enabled,
		}
		if err := svc.UpdateSection(ctx, args.PageSlug, args.SectionID, patch); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update section: %v", err)), nil
		}
		return jsonResult(map[string]string{"status": "updated", "section_id": args.SectionID})
	}
}

func getRemoveSectionHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args RemoveSectionRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RemoveSectionRequest) (*mcp.CallToolResult, error) {
		if args.SectionID == "" {
			return mcp.NewToolResultError("section_id is required"), nil
		}
		if err := svc.RemoveSection(ctx, args.PageSlug, args.SectionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to remove section: %v", err)), nil
		}
		return jsonResult(map[string]string{"status": "removed", "section_id": args.SectionID})
	}
}

func getReorderSectionsHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args ReorderSectionsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ReorderSectionsRequest) (*mcp.CallToolResult, error) {
		if len(args.SectionIDs) == 0 {
			return mcp.NewToolResultError("section_ids is required"), nil
		}
		if err := svc.ReorderSections(ctx, args.PageSlug, args.SectionIDs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to reorder sections: %v", err)), nil
		}
		return jsonResult(map[string]any{"status": "reordered", "section_ids": args.SectionIDs})
	}
}

func getUpdateThemeHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args UpdateThemeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args UpdateThemeRequest) (*mcp.CallToolResult, error) {
		patch := siteconfig.ThemePatch{
			BorderRadius: siteconfig.BorderRadius(args.BorderRadius),
		}
		if len(args.Colors) > 0 {
			patch.Colors = &siteconfig.ThemeColorsPatch{
				Primary:    args.Colors["primary"],
				Accent:     args.Colors["accent"],
				Background: args.Colors["background"],
				Text:       args.Colors["text"],
				TextMuted:  args.Colors["textMuted"],
			}
		}
		if len(args.Fonts) > 0 {
			patch.Fonts = &siteconfig.ThemeFontsPatch{
				Heading: args.Fonts["heading"],
				Body:    args.Fonts["body"],
			}
		}
		if err := svc.UpdateTheme(ctx, patch); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update theme: %v", err)), nil
		}
		return jsonResult(map[string]string{"status": "updated"})
	}
}

func getListSectionTypesHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
		return jsonResult(svc.SectionTypes())
	}
}

func getGetPageHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		markdown, err := svc.PageMarkdown(args.PageSlug)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render page: %v", err)), nil
		}
		return jsonResult(map[string]string{"markdown": string(markdown)})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}
