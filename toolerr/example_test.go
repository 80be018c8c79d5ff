package toolerr_test

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/youtube-mcp/toolerr"
)

// Example demonstrates basic usage of the toolerr package.
func Example() {
	err := toolerr.New("get_video_details", "videos.list", toolerr.ErrCodeNotFound,
		"video not found")
	fmt.Println(err)

	var toolErr *toolerr.Error
	if errors.As(fmt.Errorf("lookup: %w", err), &toolErr) {
		fmt.Printf("Code: %s, Class: %s\n", toolErr.Code, toolErr.Class)
	}

	// Output:
	// get_video_details [videos.list/NOT_FOUND]: video not found
	// Code: NOT_FOUND, Class: permanent
}

// ExampleNormalize shows that every shape of caught value yields a message.
func ExampleNormalize() {
	fmt.Println(toolerr.Normalize(errors.New("connection reset")))
	fmt.Println(toolerr.Normalize("plain message"))
	fmt.Println(toolerr.Normalize(map[string]any{"error": map[string]any{"message": "nested message"}}))
	fmt.Println(toolerr.Normalize(42))

	// Output:
	// connection reset
	// plain message
	// nested message
	// An unknown error occurred
}

// ExampleToolError shows a failure result built from a returned error.
func ExampleToolError() {
	r := toolerr.ToolError(errors.New("upstream unavailable"), toolerr.ErrorContext{
		Source: "search_videos",
		Prefix: "Search failed",
	})
	fmt.Println(r.Success, r.Error)

	// Output: false Search failed: upstream unavailable
}
