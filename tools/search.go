package tools

import (
	"context"

	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/youtube"
)

type searchArgs struct {
	Query      string `json:"query" description:"Search terms" minLength:"1"`
	MaxResults int64  `json:"max_results,omitempty" description:"Number of results to return (1-50)" minimum:"1" maximum:"50"`
	Order      string `json:"order,omitempty" description:"Result ordering" enum:"date,rating,relevance,title,viewCount"`
	PageToken  string `json:"page_token,omitempty" description:"Token from a previous response's nextPageToken"`
}

type searchVideos struct {
	api      youtube.API
	pageSize int64
}

func newSearchVideos(env tool.Env) (tool.Tool, error) {
	return &searchVideos{api: env.YouTube, pageSize: env.MaxResults}, nil
}

// Run returns the upstream search.list response unchanged.
func (t *searchVideos) Run(ctx context.Context, args map[string]any) (any, error) {
	var in searchArgs
	if err := decode(SearchVideos, args, &in); err != nil {
		return nil, err
	}
	if t.api == nil {
		return nil, youtube.ErrNotConfigured
	}

	return t.api.Search(ctx, youtube.SearchRequest{
		Query:      in.Query,
		MaxResults: pageSize(in.MaxResults, t.pageSize),
		Order:      in.Order,
		PageToken:  in.PageToken,
	})
}
