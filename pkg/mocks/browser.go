// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/user/recstream/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
type Browser struct {
	LaunchFunc          func(ctx context.Context, opts ports.BrowserOptions) error
	NavigateFunc        func(url string) error
	StartScreencastFunc func(quality int) (<-chan ports.ScreenFrame, error)
	StopScreencastFunc  func() error
	CloseFunc           func() error

	// Frames, when set and StartScreencastFunc is nil, are delivered by
	// StartScreencast on a channel that is closed afterwards.
	Frames []ports.ScreenFrame

	LaunchOptions ports.BrowserOptions
	NavigatedURL  string
	Closed        bool
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.LaunchOptions = opts
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) Navigate(url string) error {
	m.NavigatedURL = url
	if m.NavigateFunc != nil {
		return m.NavigateFunc(url)
	}
	return nil
}

func (m *Browser) StartScreencast(quality int) (<-chan ports.ScreenFrame, error) {
	if m.StartScreencastFunc != nil {
		return m.StartScreencastFunc(quality)
	}
	ch := make(chan ports.ScreenFrame, len(m.Frames))
	for _, f := range m.Frames {
		ch <- f
	}
	close(ch)
	return ch, nil
}

func (m *Browser) StopScreencast() error {
	if m.StopScreencastFunc != nil {
		return m.StopScreencastFunc()
	}
	return nil
}

func (m *Browser) Close() error {
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Browser = (*Browser)(nil)
