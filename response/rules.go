package response

import (
	"fmt"
	"regexp"
	"strings"
)

// IDRule checks YouTube identifiers in tool results whose tool name contains
// Keyword.
//
// Identifiers are read from data.<Key>, data.items[i].id.<Key> and
// data.items[i].<Key>. Bare data.id and string data.items[i].id fields are
// checked only by the primary rule for a tool, so get_playlist_videos reads a
// bare id as a video ID rather than failing it as a playlist ID.
type IDRule struct {
	Keyword string
	Key     string
	Pattern *regexp.Regexp
	Message string
}

var (
	videoIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	channelIDPattern  = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	playlistIDPattern = regexp.MustCompile(`^(PL[A-Za-z0-9_-]{32}|UU[A-Za-z0-9_-]{22})$`)
)

// DefaultRules returns the video, channel and playlist identifier rules.
func DefaultRules() []IDRule {
	return []IDRule{
		{
			Keyword: "video",
			Key:     "videoId",
			Pattern: videoIDPattern,
			Message: "Invalid YouTube video ID format",
		},
		{
			Keyword: "channel",
			Key:     "channelId",
			Pattern: channelIDPattern,
			Message: "Invalid YouTube channel ID format",
		},
		{
			Keyword: "playlist",
			Key:     "playlistId",
			Pattern: playlistIDPattern,
			Message: "Invalid YouTube playlist ID format",
		},
	}
}

// IsVideoID reports whether id is a well-formed video identifier.
func IsVideoID(id string) bool { return videoIDPattern.MatchString(id) }

// IsChannelID reports whether id is a well-formed channel identifier.
func IsChannelID(id string) bool { return channelIDPattern.MatchString(id) }

// IsPlaylistID reports whether id is a well-formed playlist identifier.
func IsPlaylistID(id string) bool { return playlistIDPattern.MatchString(id) }

// rulesFor returns the rules whose keyword appears in toolName, in rule order.
// The first one is the primary rule.
func (v *Validator) rulesFor(toolName string) []IDRule {
	name := strings.ToLower(toolName)
	var rules []IDRule
	for _, r := range v.rules {
		if r.Keyword != "" && strings.Contains(name, strings.ToLower(r.Keyword)) {
			rules = append(rules, r)
		}
	}
	return rules
}

func (r IDRule) check(data map[string]any, primary bool) []FieldError {
	if data == nil || r.Pattern == nil {
		return nil
	}

	var errs []FieldError
	test := func(field string, value any) {
		id, ok := value.(string)
		if !ok {
			return
		}
		if !r.Pattern.MatchString(id) {
			errs = append(errs, FieldError{
				Field:        field,
				Message:      r.Message,
				Value:        id,
				ExpectedType: "string",
			})
		}
	}

	if primary {
		test("data.id", data["id"])
	}
	if r.Key != "" {
		test("data."+r.Key, data[r.Key])
	}

	items, _ := data["items"].([]any)
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		base := fmt.Sprintf("data.items[%d]", i)
		switch id := item["id"].(type) {
		case string:
			if primary {
				test(base+".id", id)
			}
		case map[string]any:
			if r.Key != "" {
				test(base+".id."+r.Key, id[r.Key])
			}
		}
		if r.Key != "" {
			test(base+"."+r.Key, item[r.Key])
		}
	}
	return errs
}
