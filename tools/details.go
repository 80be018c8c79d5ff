package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	"github.com/zero-day-ai/youtube-mcp/youtube"
)

type videoArgs struct {
	ID string `json:"id" description:"Video ID, or up to 50 comma-separated IDs" pattern:"^[A-Za-z0-9_-]{11}(,[A-Za-z0-9_-]{11})*$"`
}

type channelArgs struct {
	ID string `json:"id" description:"Channel ID, or up to 50 comma-separated IDs" pattern:"^UC[A-Za-z0-9_-]{22}(,UC[A-Za-z0-9_-]{22})*$"`
}

type videoDetails struct {
	api youtube.API
}

func newVideoDetails(env tool.Env) (tool.Tool, error) {
	return &videoDetails{api: env.YouTube}, nil
}

// Run returns the upstream videos.list response unchanged.
func (t *videoDetails) Run(ctx context.Context, args map[string]any) (any, error) {
	var in videoArgs
	if err := decode(GetVideoDetails, args, &in); err != nil {
		return nil, err
	}
	if t.api == nil {
		return nil, youtube.ErrNotConfigured
	}
	ids, err := splitIDs(GetVideoDetails, in.ID)
	if err != nil {
		return nil, err
	}
	return t.api.Videos(ctx, ids...)
}

type channelDetails struct {
	api youtube.API
}

func newChannelDetails(env tool.Env) (tool.Tool, error) {
	return &channelDetails{api: env.YouTube}, nil
}

// Run returns the upstream channels.list response unchanged.
func (t *channelDetails) Run(ctx context.Context, args map[string]any) (any, error) {
	var in channelArgs
	if err := decode(GetChannelDetails, args, &in); err != nil {
		return nil, err
	}
	if t.api == nil {
		return nil, youtube.ErrNotConfigured
	}
	ids, err := splitIDs(GetChannelDetails, in.ID)
	if err != nil {
		return nil, err
	}
	return t.api.Channels(ctx, ids...)
}

// splitIDs splits a comma-separated ID list. The Data API accepts at most
// youtube.MaxPageSize IDs per list call.
func splitIDs(toolName, s string) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > youtube.MaxPageSize {
		return nil, toolerr.New(toolName, "split ids", toolerr.ErrCodeInvalidInput,
			fmt.Sprintf("at most %d IDs per call, got %d", youtube.MaxPageSize, len(ids)))
	}
	return ids, nil
}
