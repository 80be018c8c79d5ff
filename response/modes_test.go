package response

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/youtube-mcp/tool"
	yt "google.golang.org/api/youtube/v3"
)

func TestValidateToolResponseVideoIDs(t *testing.T) {
	v := New()

	ok := v.ValidateToolResponse(map[string]any{
		"success": true,
		"data":    map[string]any{"items": []any{map[string]any{"id": "dQw4w9WgXcQ"}}},
	}, "get_video_details")
	assert.True(t, ok.Valid, ok.Errors)
	assert.Empty(t, ok.Errors)

	bad := v.ValidateToolResponse(map[string]any{
		"success": true,
		"data":    map[string]any{"items": []any{map[string]any{"id": "bad_id"}}},
	}, "get_video_details")
	assert.False(t, bad.Valid)
	require.Len(t, bad.Errors, 1)
	assert.Equal(t, "Invalid YouTube video ID format", bad.Errors[0].Message)
	assert.Equal(t, "data.items[0].id", bad.Errors[0].Field)
	assert.Equal(t, "bad_id", bad.Errors[0].Value)
}

func TestValidateToolResponseIDLocations(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		toolName string
		data     map[string]any
		want     []string
	}{
		{
			name:     "top-level id",
			toolName: "get_channel_details",
			data:     map[string]any{"id": "UCshort"},
			want:     []string{"data.id"},
		},
		{
			name:     "top-level key",
			toolName: "analyze_video",
			data:     map[string]any{"videoId": "way-too-long-video-id"},
			want:     []string{"data.videoId"},
		},
		{
			name:     "search result id object",
			toolName: "search_videos",
			data: map[string]any{"items": []any{
				map[string]any{"id": map[string]any{"kind": "youtube#video", "videoId": "dQw4w9WgXcQ"}},
				map[string]any{"id": map[string]any{"kind": "youtube#video", "videoId": "nope"}},
			}},
			want: []string{"data.items[1].id.videoId"},
		},
		{
			name:     "item key",
			toolName: "get_playlist_videos",
			data: map[string]any{
				"playlistId": "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
				"items": []any{
					map[string]any{"videoId": "dQw4w9WgXcQ", "position": 0},
					map[string]any{"videoId": "x"},
				},
			},
			want: []string{"data.items[1].videoId"},
		},
		{
			name:     "uploads playlist accepted",
			toolName: "get_playlist_videos",
			data:     map[string]any{"playlistId": "UU_x5XG1OV2P6uZZ5FSM9Ttw", "items": []any{}},
		},
		{
			name:     "bad playlist",
			toolName: "get_playlist_videos",
			data:     map[string]any{"playlistId": "PLshort", "items": []any{}},
			want:     []string{"data.playlistId"},
		},
		{
			name:     "two keywords bare id is a video id",
			toolName: "get_playlist_videos",
			data:     map[string]any{"items": []any{map[string]any{"id": "dQw4w9WgXcQ"}}},
		},
		{
			name:     "two keywords bare id still checked by primary rule",
			toolName: "get_playlist_videos",
			data:     map[string]any{"id": "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"},
			want:     []string{"data.id"},
		},
		{
			name:     "two keywords keyed ids checked by both rules",
			toolName: "get_playlist_videos",
			data: map[string]any{
				"playlistId": "PLshort",
				"items":      []any{map[string]any{"videoId": "dQw4w9WgXcQ"}, map[string]any{"id": map[string]any{"playlistId": "PLbad"}}},
			},
			want: []string{"data.playlistId", "data.items[1].id.playlistId"},
		},
		{
			name:     "no keyword no rules",
			toolName: "ping",
			data:     map[string]any{"id": "anything at all"},
		},
		{
			name:     "keyword match is case-insensitive",
			toolName: "GetChannel",
			data:     map[string]any{"items": []any{map[string]any{"id": "UC_x5XG1OV2P6uZZ5FSM9Ttw"}, map[string]any{"id": "UCbad"}}},
			want:     []string{"data.items[1].id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidateToolResponse(map[string]any{"success": true, "data": tt.data}, tt.toolName)
			if len(tt.want) == 0 {
				assert.True(t, r.Valid, r.Errors)
				return
			}
			assert.False(t, r.Valid)
			assert.Equal(t, tt.want, fieldsOf(r))
		})
	}
}

func TestValidateToolResponseShape(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"ok result", tool.Ok(map[string]any{"n": 1}, &tool.Metadata{QuotaUsed: tool.Cost(1), ResponseTime: 3, Source: "s"}), nil},
		{"fail result", tool.Fail("boom", &tool.Metadata{QuotaUsed: tool.Cost(0)}), nil},
		{"missing success", map[string]any{"data": map[string]any{}}, []string{"success"}},
		{"success without data", map[string]any{"success": true}, []string{"data"}},
		{"failure without error", map[string]any{"success": false}, []string{"error"}},
		{"both", map[string]any{"success": false, "error": "x", "data": 1}, []string{"data"}},
		{"negative quota", map[string]any{"success": true, "data": 1, "metadata": map[string]any{"quotaUsed": -1}}, []string{"metadata.quotaUsed"}},
		{"empty error", map[string]any{"success": false, "error": ""}, []string{"error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidateToolResponse(tt.value, "ping")
			if tt.want == nil {
				assert.True(t, r.Valid, r.Errors)
				return
			}
			assert.False(t, r.Valid)
			assert.Equal(t, tt.want, fieldsOf(r))
		})
	}
}

func TestCustomRule(t *testing.T) {
	v := New(WithRules(IDRule{
		Keyword: "caption",
		Key:     "captionId",
		Pattern: regexp.MustCompile(`^cap-[0-9]+$`),
		Message: "Invalid caption ID format",
	}))

	r := v.ValidateToolResponse(map[string]any{
		"success": true,
		"data":    map[string]any{"captionId": "nope"},
	}, "list_captions")
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "Invalid caption ID format", r.Errors[0].Message)
}

func TestIDHelpers(t *testing.T) {
	assert.True(t, IsVideoID("dQw4w9WgXcQ"))
	assert.False(t, IsVideoID("bad_id"))
	assert.True(t, IsChannelID("UC_x5XG1OV2P6uZZ5FSM9Ttw"))
	assert.False(t, IsChannelID("HC_x5XG1OV2P6uZZ5FSM9Ttw"))
	assert.True(t, IsPlaylistID("PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"))
	assert.True(t, IsPlaylistID("UU_x5XG1OV2P6uZZ5FSM9Ttw"))
	assert.False(t, IsPlaylistID("PL123"))
}

func TestValidateYouTubeAPIResponse(t *testing.T) {
	v := New()

	t.Run("sdk response", func(t *testing.T) {
		resp := &yt.SearchListResponse{
			Kind:          "youtube#searchListResponse",
			Etag:          "etag",
			NextPageToken: "CAUQAA",
			PageInfo:      &yt.PageInfo{TotalResults: 100, ResultsPerPage: 5},
			Items: []*yt.SearchResult{{
				Kind: "youtube#searchResult",
				Etag: "item",
				Id:   &yt.ResourceId{Kind: "youtube#video", VideoId: "dQw4w9WgXcQ"},
			}},
		}
		r := v.ValidateYouTubeAPIResponse(resp)
		assert.True(t, r.Valid, r.Errors)
	})

	t.Run("missing fields", func(t *testing.T) {
		r := v.ValidateYouTubeAPIResponse(map[string]any{"kind": "youtube#videoListResponse"})
		assert.False(t, r.Valid)
		assert.ElementsMatch(t, []string{"etag", "items"}, fieldsOf(r))
	})

	t.Run("bad kind and page info", func(t *testing.T) {
		r := v.ValidateYouTubeAPIResponse(map[string]any{
			"kind":     "videoListResponse",
			"etag":     "e",
			"items":    []any{map[string]any{"etag": "x"}},
			"pageInfo": map[string]any{"totalResults": -1},
		})
		assert.ElementsMatch(t, []string{"kind", "items[0].kind", "pageInfo.totalResults"}, fieldsOf(r))
	})

	t.Run("upstream error payload", func(t *testing.T) {
		r := v.ValidateYouTubeAPIResponse(map[string]any{
			"error": map[string]any{"code": 403, "message": "quotaExceeded"},
		})
		assert.False(t, r.Valid)
		assert.Contains(t, fieldsOf(r), "error")
		for _, e := range r.Errors {
			if e.Field == "error" {
				assert.Equal(t, "YouTube API error: quotaExceeded", e.Message)
				assert.Equal(t, float64(403), e.Value)
			}
		}
	})
}

func TestValidateResponseIntegrity(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{
			"success": true,
			"content": []any{map[string]any{"type": "text", "text": "ok"}},
		})
		assert.True(t, r.Valid, r.Errors)
	})

	t.Run("two malformed elements", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{
			"success": true,
			"content": []any{
				map[string]any{"text": "missing type"},
				map[string]any{"type": "image", "text": "wrong type"},
				map[string]any{"type": "text", "text": "fine"},
			},
		})
		assert.False(t, r.Valid)
		assert.Len(t, r.Errors, 2)
		assert.Equal(t, []string{"content[0].type", "content[1].type"}, fieldsOf(r))
	})

	t.Run("content only adds missing success", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{
			"content": []any{
				map[string]any{"text": "missing type"},
				map[string]any{"type": "image", "text": "wrong type"},
			},
		})
		assert.Equal(t, []string{"success", "content[0].type", "content[1].type"}, fieldsOf(r))
	})

	t.Run("one error per element", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{
			"success": true,
			"content": []any{
				map[string]any{"type": "image", "text": 1, "extra": true},
				"just a string",
				map[string]any{"type": "text", "text": "x", "annotations": map[string]any{}},
			},
		})
		assert.Len(t, r.Errors, 3)
	})

	t.Run("missing top-level fields", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{})
		assert.Equal(t, []string{"success", "content"}, fieldsOf(r))
	})

	t.Run("content not array", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{"success": true, "content": map[string]any{}})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "content", r.Errors[0].Field)
		assert.Equal(t, "object", r.Errors[0].Value)
	})

	t.Run("success not boolean", func(t *testing.T) {
		r := v.ValidateResponseIntegrity(map[string]any{"success": "true", "content": []any{}})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "success", r.Errors[0].Field)
	})

	t.Run("not an object", func(t *testing.T) {
		r := v.ValidateResponseIntegrity([]any{1, 2})
		require.Len(t, r.Errors, 1)
		assert.Equal(t, "root", r.Errors[0].Field)
	})
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	results := []ValidationResult{
		{Valid: true, Errors: []FieldError{}, Performance: Performance{ValidationTime: 1}},
		{Valid: false, Errors: []FieldError{{Field: "a"}, {Field: "b"}}, Performance: Performance{ValidationTime: 2}},
		{Valid: false, Errors: []FieldError{{Field: "c"}}, Performance: Performance{ValidationTime: 3}},
	}
	s := Summarize(results)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 3, s.TotalErrors)
	assert.InDelta(t, 2.0, s.AverageValidationTime, 1e-9)
}
