package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	yt "google.golang.org/api/youtube/v3"
)

type analyzeArgs struct {
	VideoID string `json:"video_id" description:"ID of the video to analyze" pattern:"^[A-Za-z0-9_-]{11}$"`
}

// Engagement bands, as a share of views that liked or commented.
const (
	highEngagement     = 0.05
	moderateEngagement = 0.01
)

// Analysis is the result of analyze_video.
type Analysis struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt,omitempty"`
	Duration     string `json:"duration,omitempty"`

	Views       uint64 `json:"views"`
	Likes       uint64 `json:"likes"`
	Comments    uint64 `json:"comments"`
	Subscribers uint64 `json:"subscribers"`

	// Ratios are zero when their denominator is zero or hidden upstream.
	LikeRate           float64 `json:"likeRate"`
	CommentRate        float64 `json:"commentRate"`
	EngagementRate     float64 `json:"engagementRate"`
	ViewsPerSubscriber float64 `json:"viewsPerSubscriber"`
	ViewsPerDay        float64 `json:"viewsPerDay"`

	// Engagement is "high", "moderate" or "low".
	Engagement string `json:"engagement"`
}

var now = time.Now

type analyzeVideo struct {
	inv    tool.Invoker
	logger *slog.Logger
}

func newAnalyzeVideo(env tool.Env, inv tool.Invoker) (tool.Tool, error) {
	return &analyzeVideo{inv: inv, logger: env.Logger}, nil
}

// Run fetches the video and then its channel through the registry, so each
// step is validated, traced and accounted for like a direct call.
func (t *analyzeVideo) Run(ctx context.Context, args map[string]any) (any, error) {
	var in analyzeArgs
	if err := decode(AnalyzeVideo, args, &in); err != nil {
		return nil, err
	}

	var videos yt.VideoListResponse
	if err := t.call(ctx, GetVideoDetails, in.VideoID, &videos); err != nil {
		return nil, err
	}
	if len(videos.Items) == 0 || videos.Items[0] == nil {
		return nil, toolerr.New(AnalyzeVideo, GetVideoDetails, toolerr.ErrCodeNotFound, "video not found: "+in.VideoID).
			WithKind(toolerr.KindExecution)
	}
	video := videos.Items[0]

	a := Analysis{VideoID: in.VideoID}
	if video.Snippet != nil {
		a.Title = video.Snippet.Title
		a.ChannelID = video.Snippet.ChannelId
		a.ChannelTitle = video.Snippet.ChannelTitle
		a.PublishedAt = video.Snippet.PublishedAt
	}
	if video.ContentDetails != nil {
		a.Duration = video.ContentDetails.Duration
	}
	if s := video.Statistics; s != nil {
		a.Views, a.Likes, a.Comments = s.ViewCount, s.LikeCount, s.CommentCount
	}

	if a.ChannelID != "" {
		var channels yt.ChannelListResponse
		if err := t.call(ctx, GetChannelDetails, a.ChannelID, &channels); err != nil {
			return nil, err
		}
		if len(channels.Items) > 0 && channels.Items[0] != nil && channels.Items[0].Statistics != nil {
			st := channels.Items[0].Statistics
			if !st.HiddenSubscriberCount {
				a.Subscribers = st.SubscriberCount
			}
		}
	}

	a.score()
	t.logger.Debug("video analyzed", "video_id", a.VideoID, "engagement", a.Engagement)
	return a, nil
}

// call runs another tool with a single id argument and decodes its data.
func (t *analyzeVideo) call(ctx context.Context, name, id string, out any) error {
	res := t.inv.Execute(ctx, name, map[string]any{"id": id})
	if !res.Success {
		return fmt.Errorf("%s: %s", name, res.Error)
	}

	data, err := json.Marshal(res.Data)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return toolerr.UtilityError(err, toolerr.Operation{Name: "decode result", Detail: name})
	}
	return nil
}

func (a *Analysis) score() {
	a.LikeRate = ratio(a.Likes, a.Views)
	a.CommentRate = ratio(a.Comments, a.Views)
	a.EngagementRate = ratio(a.Likes+a.Comments, a.Views)
	a.ViewsPerSubscriber = ratio(a.Views, a.Subscribers)

	if published, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		days := now().Sub(published).Hours() / 24
		if days < 1 {
			days = 1
		}
		a.ViewsPerDay = round(float64(a.Views) / days)
	}

	switch {
	case a.EngagementRate >= highEngagement:
		a.Engagement = "high"
	case a.EngagementRate >= moderateEngagement:
		a.Engagement = "moderate"
	default:
		a.Engagement = "low"
	}
}

func ratio(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return round(float64(num) / float64(den))
}

// round keeps four decimal places.
func round(f float64) float64 {
	return math.Round(f*10000) / 10000
}
