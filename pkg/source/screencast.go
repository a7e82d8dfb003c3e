package source

import (
	"context"
	"fmt"

	"github.com/user/recstream/pkg/ports"
)

// Screencast records a web page through a browser screencast. Frames arrive
// whenever the page repaints, so the recorder's pacing fills the gaps.
type Screencast struct {
	Browser ports.Browser
	URL     string
	Options ports.BrowserOptions

	// Quality is the JPEG quality requested from the browser.
	Quality int

	Logger ports.Logger
}

func (s *Screencast) Name() string { return "url" }

func (s *Screencast) Run(ctx context.Context, sink Sink) error {
	if s.Options.Headless {
		s.Logger.Debug("Launching browser in headless mode")
	} else {
		s.Logger.Debug("Launching browser in visible mode")
	}
	if err := s.Browser.Launch(ctx, s.Options); err != nil {
		s.Logger.Error("Failed to launch browser: %s", err.Error())
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		s.Browser.Close()
		s.Logger.Debug("Browser closed")
	}()

	s.Logger.Debug("Starting screencast with JPEG quality %d", s.Quality)
	frames, err := s.Browser.StartScreencast(s.Quality)
	if err != nil {
		return err
	}
	defer s.Browser.StopScreencast()

	s.Logger.Debug("Navigating to %s", s.URL)
	navErr := make(chan error, 1)
	go func() { navErr <- s.Browser.Navigate(s.URL) }()

	captured := 0
	defer func() { s.Logger.Debug("Captured %d frames", captured) }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-navErr:
			if err != nil {
				return fmt.Errorf("navigate %s: %w", s.URL, err)
			}
			navErr = nil
		case f, ok := <-frames:
			if !ok {
				if navErr != nil {
					<-navErr
				}
				return nil
			}
			captured++
			if finished(s.Logger, sink.PushEncoded(ctx, f.Data)) {
				return nil
			}
		}
	}
}
