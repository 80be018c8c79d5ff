package tools

import (
	"context"

	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/youtube"
	yt "google.golang.org/api/youtube/v3"
)

type playlistArgs struct {
	PlaylistID string `json:"playlist_id" description:"Playlist ID (PL... or an uploads playlist UU...)" pattern:"^(PL[A-Za-z0-9_-]{32}|UU[A-Za-z0-9_-]{22})$"`
	MaxResults int64  `json:"max_results,omitempty" description:"Number of videos to return (1-50)" minimum:"1" maximum:"50"`
	PageToken  string `json:"page_token,omitempty" description:"Token from a previous response's nextPageToken"`
}

// PlaylistVideos is the result of get_playlist_videos.
type PlaylistVideos struct {
	PlaylistID    string          `json:"playlistId"`
	Items         []PlaylistVideo `json:"items"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
	TotalResults  int64           `json:"totalResults,omitempty"`
}

// PlaylistVideo is one entry of a playlist page.
type PlaylistVideo struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Position    int64  `json:"position"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

type playlistVideos struct {
	api      youtube.API
	pageSize int64
}

func newPlaylistVideos(env tool.Env) (tool.Tool, error) {
	return &playlistVideos{api: env.YouTube, pageSize: env.MaxResults}, nil
}

func (t *playlistVideos) Run(ctx context.Context, args map[string]any) (any, error) {
	var in playlistArgs
	if err := decode(GetPlaylistVideos, args, &in); err != nil {
		return nil, err
	}
	if t.api == nil {
		return nil, youtube.ErrNotConfigured
	}

	resp, err := t.api.PlaylistItems(ctx, in.PlaylistID, pageSize(in.MaxResults, t.pageSize), in.PageToken)
	if err != nil {
		return nil, err
	}
	return shapePlaylist(in.PlaylistID, resp), nil
}

// shapePlaylist flattens playlistItems.list into one entry per video.
// Items without a resolvable video are dropped.
func shapePlaylist(playlistID string, resp *yt.PlaylistItemListResponse) PlaylistVideos {
	out := PlaylistVideos{PlaylistID: playlistID, Items: []PlaylistVideo{}}
	if resp == nil {
		return out
	}
	out.NextPageToken = resp.NextPageToken
	if resp.PageInfo != nil {
		out.TotalResults = resp.PageInfo.TotalResults
	}

	for _, item := range resp.Items {
		if item == nil || item.Snippet == nil {
			continue
		}
		v := PlaylistVideo{
			Title:       item.Snippet.Title,
			Position:    item.Snippet.Position,
			PublishedAt: item.Snippet.PublishedAt,
		}
		if item.Snippet.ResourceId != nil {
			v.VideoID = item.Snippet.ResourceId.VideoId
		}
		if cd := item.ContentDetails; cd != nil {
			if v.VideoID == "" {
				v.VideoID = cd.VideoId
			}
			if cd.VideoPublishedAt != "" {
				v.PublishedAt = cd.VideoPublishedAt
			}
		}
		if v.VideoID == "" {
			continue
		}
		out.Items = append(out.Items, v)
	}
	return out
}
