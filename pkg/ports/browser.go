// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Browser abstracts a browser used as a screencast frame producer.
type Browser interface {
	// Launch starts the browser with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// Navigate loads the specified URL.
	Navigate(url string) error

	// StartScreencast begins capturing screenshots whenever the page repaints.
	// Returns a channel that receives screen frames; it is closed by StopScreencast.
	StartScreencast(quality int) (<-chan ScreenFrame, error)

	// StopScreencast stops the screencast capture.
	StopScreencast() error

	// Close shuts down the browser.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless     bool
	ChromePath   string
	WindowWidth  int // Initial window width (screencast size)
	WindowHeight int // Initial window height (screencast size)
}

// ScreenFrame represents a single captured screenshot.
type ScreenFrame struct {
	TimestampMs int    // Milliseconds since the screencast started
	Data        []byte // JPEG image data
}
