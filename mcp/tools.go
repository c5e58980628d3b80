package mcp

import (
	"context"
	"encoding/json"

	"github.com/ehri-project/ehri-explorer/api"
	"github.com/ehri-project/ehri-explorer/api/blog"
	"github.com/ehri-project/ehri-explorer/api/portal"
	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

func InitTools() []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(ListCountries()))
	tools = append(tools, newServerTool(SearchArchives()))
	tools = append(tools, newServerTool(SearchBlog()))

	return tools
}

// ListCountries exposes the country directory as a tool
func ListCountries() (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"list_countries",
			mcp.WithDescription("List the countries with EHRI country reports, with their ISO-2 codes"),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			dir := api.NewDirectory(api.CachedCountries(portal.NewClient()))
			if err := dir.Load(ctx); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			b, err := json.Marshal(dir.Countries())
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

// SearchArchives exposes the paginated archival-description search
func SearchArchives() (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_archives",
			mcp.WithDescription("Search archival descriptions (documentary units) within a country on the EHRI portal"),
			mcp.WithString("country", mcp.Required(), mcp.Description("Country ISO-2 code or display name")),
			mcp.WithString("query", mcp.Description("Free-text search query")),
			mcp.WithNumber("page", mcp.Description("1-based result page")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Country string `json:"country" validate:"required"`
				Query   string `json:"query" validate:"omitempty"`
				Page    int    `json:"page" validate:"omitempty,min=1"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client := portal.NewClient()
			dir := api.NewDirectory(api.CachedCountries(client))
			if err := dir.Load(ctx); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sess := api.NewSearchSession(client, api.CachedRepositories(client), dir)
			if err := sess.SetCountry(args.Country); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			sess.SetQuery(args.Query)
			for p := 1; p < args.Page; p++ {
				sess.NextPage()
			}

			page, err := sess.Fetch(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			agg := sess.Aggregates()

			type Unit struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				URL   string `json:"url"`
			}
			type SearchResult struct {
				Country string               `json:"country"`
				Query   string               `json:"query,omitempty"`
				Page    int                  `json:"page"`
				Pages   int                  `json:"pages"`
				Total   int                  `json:"total"`
				Holders []portal.FacetBucket `json:"holders,omitempty"`
				Units   []Unit               `json:"units"`
			}

			result := SearchResult{
				Country: sess.Country(),
				Query:   sess.Query(),
				Page:    sess.Page(),
				Pages:   agg.Pages,
				Total:   agg.Total,
				Holders: agg.Holders,
				Units:   make([]Unit, 0, len(page.Units)),
			}
			for _, u := range page.Units {
				result.Units = append(result.Units, Unit{
					ID:    u.ID,
					Title: u.Title(),
					URL:   u.PortalURL(),
				})
			}

			b, err := json.Marshal(result)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

// SearchBlog exposes the Document Blog search
func SearchBlog() (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"search_blog",
			mcp.WithDescription("Search the EHRI Document Blog for posts"),
			mcp.WithString("query", mcp.Description("Free-text search query")),
			mcp.WithNumber("page", mcp.Description("1-based result page")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Query string `json:"query" validate:"omitempty"`
				Page  int    `json:"page" validate:"omitempty,min=1"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sess := api.NewBlogSession(blog.NewClient())
			sess.SetQuery(args.Query)
			for p := 1; p < args.Page; p++ {
				sess.NextPage()
			}

			page, err := sess.Fetch(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			type BlogResult struct {
				Query string      `json:"query,omitempty"`
				Page  int         `json:"page"`
				Pages int         `json:"pages"`
				Total int         `json:"total"`
				Posts []blog.Post `json:"posts"`
			}

			b, err := json.Marshal(BlogResult{
				Query: sess.Query(),
				Page:  sess.Page(),
				Pages: page.TotalPages,
				Total: page.Total,
				Posts: page.Posts,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}
