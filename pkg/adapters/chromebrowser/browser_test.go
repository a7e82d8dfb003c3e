package chromebrowser

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"
	"time"

	"github.com/user/recstream/pkg/ports"
)

func TestBrowser_Screencast(t *testing.T) {
	chromePath := ResolveChromePath("")
	if chromePath == "" {
		t.Skip("Chrome not installed, skipping screencast test")
	}

	browser := New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := browser.Launch(ctx, ports.BrowserOptions{
		ChromePath:   chromePath,
		Headless:     true,
		WindowWidth:  320,
		WindowHeight: 240,
	}); err != nil {
		t.Fatalf("failed to launch: %v", err)
	}
	defer browser.Close()

	frames, err := browser.StartScreencast(70)
	if err != nil {
		t.Fatalf("StartScreencast: %v", err)
	}
	if _, err := browser.StartScreencast(70); err != ErrScreencastActive {
		t.Errorf("second StartScreencast error = %v, want ErrScreencastActive", err)
	}

	page := `data:text/html,<body style="background:red"><script>setInterval(()=>document.body.style.background=['red','blue'][Date.now()&1],16)</script></body>`
	if err := browser.Navigate(page); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	select {
	case f := <-frames:
		if _, err := jpeg.Decode(bytes.NewReader(f.Data)); err != nil {
			t.Errorf("frame is not a JPEG: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no screencast frame received")
	}

	if err := browser.StopScreencast(); err != nil {
		t.Errorf("StopScreencast: %v", err)
	}
	for range frames {
	}
}

func TestBrowser_NotLaunched(t *testing.T) {
	b := New()
	if err := b.Navigate("about:blank"); err == nil {
		t.Error("Navigate before Launch should fail")
	}
	if _, err := b.StartScreencast(80); err == nil {
		t.Error("StartScreencast before Launch should fail")
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close on unlaunched browser: %v", err)
	}
}
