// Package tools implements the YouTube tools served by youtube-mcp and the
// registration table that makes them discoverable.
//
// Every tool follows the same shape: a private argument struct whose tags
// produce the advertised input schema, a factory that captures what the tool
// needs from the Env, and a Run method that decodes its arguments, calls the
// upstream API and returns a JSON-serializable value.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/zero-day-ai/youtube-mcp/registry"
	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
)

// Tool names.
const (
	SearchVideos      = "search_videos"
	GetVideoDetails   = "get_video_details"
	GetChannelDetails = "get_channel_details"
	GetPlaylistVideos = "get_playlist_videos"
	AnalyzeVideo      = "analyze_video"
)

// Upstream quota estimates, in Data API units.
const (
	searchCost  = 100
	listCost    = 1
	analyzeCost = 2
)

// Modules returns the registration table for every tool in this package.
func Modules() []registry.Module {
	return []registry.Module{
		mustBuild(tool.NewConfig().
			SetName(SearchVideos).
			SetDescription("Search YouTube for videos matching a query").
			SetArgs(searchArgs{}).
			SetQuotaCost(searchCost).
			SetFactory(tool.Simple(newSearchVideos))),
		mustBuild(tool.NewConfig().
			SetName(GetVideoDetails).
			SetDescription("Get snippet, statistics and content details for one or more videos").
			SetArgs(videoArgs{}).
			SetQuotaCost(listCost).
			SetFactory(tool.Simple(newVideoDetails))),
		mustBuild(tool.NewConfig().
			SetName(GetChannelDetails).
			SetDescription("Get snippet and statistics for one or more channels").
			SetArgs(channelArgs{}).
			SetQuotaCost(listCost).
			SetFactory(tool.Simple(newChannelDetails))),
		mustBuild(tool.NewConfig().
			SetName(GetPlaylistVideos).
			SetDescription("List the videos in a playlist, one page at a time").
			SetArgs(playlistArgs{}).
			SetQuotaCost(listCost).
			SetFactory(tool.Simple(newPlaylistVideos))),
		mustBuild(tool.NewConfig().
			SetName(AnalyzeVideo).
			SetDescription("Compute engagement metrics for a video relative to its channel").
			SetArgs(analyzeArgs{}).
			SetQuotaCost(analyzeCost).
			SetFactory(tool.Chainable(newAnalyzeVideo))),
	}
}

// mustBuild panics on a malformed built-in registration; those are
// programming errors caught by the package tests.
func mustBuild(c *tool.Config) registry.Module {
	d, f, err := c.Build()
	if err != nil {
		panic(fmt.Sprintf("tools: invalid registration: %v", err))
	}
	return registry.Module{Descriptor: d, Factory: f}
}

// decode copies loosely typed arguments into a typed struct.
func decode(toolName string, args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return toolerr.UtilityError(err, toolerr.Operation{Name: "decode arguments", Detail: toolName})
	}
	return nil
}

// pageSize picks the requested page size, falling back to the Env default.
func pageSize(requested, fallback int64) int64 {
	if requested > 0 {
		return requested
	}
	return fallback
}
