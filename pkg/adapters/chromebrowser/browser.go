// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/recstream/pkg/ports"
)

// ErrChromeNotFound is returned by Launch when no Chrome executable is found.
var ErrChromeNotFound = errors.New("chrome not found: install Chrome/Chromium, set CHROME_PATH, or use --chrome-path")

// ErrScreencastActive is returned when StartScreencast is called twice.
var ErrScreencastActive = errors.New("screencast already active")

// screencastBuffer is the number of frames held while the consumer is busy.
// Older frames are dropped beyond that, as Chrome would drop them anyway.
const screencastBuffer = 32

// Browser implements ports.Browser using chromedp.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	screencastChan   chan ports.ScreenFrame
	screencastMu     sync.Mutex
	screencastActive bool
	listening        bool
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// Launch starts the browser with the given options.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" {
		return ErrChromeNotFound
	}

	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("no-zygote", true),
	}
	if opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		chromedpOpts = append(chromedpOpts,
			chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
			chromedp.Flag("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight)))
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, chromedpOpts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// Run with no actions starts the browser process.
	if err := chromedp.Run(b.ctx); err != nil {
		b.cancel()
		b.allocCancel()
		return fmt.Errorf("start chrome: %w", err)
	}
	return nil
}

// Navigate loads the specified URL.
func (b *Browser) Navigate(url string) error {
	if b.ctx == nil {
		return fmt.Errorf("navigate %s: browser not launched", url)
	}
	return chromedp.Run(b.ctx, chromedp.Navigate(url))
}

// StartScreencast begins delivering a JPEG frame each time the page repaints.
// Frames keep arriving until StopScreencast or Close.
func (b *Browser) StartScreencast(quality int) (<-chan ports.ScreenFrame, error) {
	b.screencastMu.Lock()
	defer b.screencastMu.Unlock()

	if b.ctx == nil {
		return nil, fmt.Errorf("start screencast: browser not launched")
	}
	if b.screencastActive {
		return nil, ErrScreencastActive
	}

	b.screencastChan = make(chan ports.ScreenFrame, screencastBuffer)
	b.screencastActive = true
	startTime := time.Now()

	if !b.listening {
		b.listening = true
		chromedp.ListenTarget(b.ctx, func(ev interface{}) {
			e, ok := ev.(*page.EventScreencastFrame)
			if !ok {
				return
			}
			// Chrome stops sending until the frame is acknowledged.
			go chromedp.Run(b.ctx, page.ScreencastFrameAck(e.SessionID))

			data, err := base64.StdEncoding.DecodeString(e.Data)
			if err != nil {
				return
			}
			b.deliver(ports.ScreenFrame{
				TimestampMs: int(time.Since(startTime).Milliseconds()),
				Data:        data,
			})
		})
	}

	err := chromedp.Run(b.ctx,
		page.StartScreencast().
			WithFormat(page.ScreencastFormatJpeg).
			WithQuality(int64(quality)).
			WithEveryNthFrame(1),
	)
	if err != nil {
		b.screencastActive = false
		close(b.screencastChan)
		return nil, fmt.Errorf("start screencast: %w", err)
	}

	return b.screencastChan, nil
}

func (b *Browser) deliver(f ports.ScreenFrame) {
	b.screencastMu.Lock()
	defer b.screencastMu.Unlock()
	if !b.screencastActive {
		return
	}
	select {
	case b.screencastChan <- f:
	default:
	}
}

// StopScreencast stops the screencast and closes the frame channel.
func (b *Browser) StopScreencast() error {
	b.screencastMu.Lock()
	defer b.screencastMu.Unlock()

	if !b.screencastActive {
		return nil
	}
	b.screencastActive = false
	close(b.screencastChan)

	// Stop with a timeout; a crashed page must not hang shutdown.
	stopCtx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(stopCtx, page.StopScreencast()); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stop screencast: %w", err)
	}
	return nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	_ = b.StopScreencast()

	if b.cancel != nil {
		b.cancel()
	}
	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
