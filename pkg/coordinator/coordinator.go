// Package coordinator serializes recording commands onto a single worker and
// enforces the recorder lifecycle.
//
// The lifecycle is Idle -> Starting -> Recording -> Stopping -> Idle. State
// checks happen when a command is submitted, so a start issued while a
// previous segment is still being torn down is rejected instead of being
// queued behind the teardown.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/recstream/pkg/effect"
	"github.com/user/recstream/pkg/frame"
	"github.com/user/recstream/pkg/ingest"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
	"github.com/user/recstream/pkg/scheduler"
	"github.com/user/recstream/pkg/session"
)

// State is the recorder lifecycle state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRecording
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// DefaultRequestBuffer is the request channel capacity.
const DefaultRequestBuffer = 64

// Options configures a Coordinator.
type Options struct {
	Candidates []session.Candidate
	FileSystem ports.FileSystem
	Clock      ports.Clock
	Logger     ports.Logger

	// Config is applied to the first start; Configure replaces it.
	Config pipeline.RecordConfig

	// Effect is the initial effect.
	Effect ports.EffectKind

	// RequestBuffer is the number of commands that may wait for the worker.
	// Pushes beyond it fail with ErrOverloaded instead of blocking.
	RequestBuffer int
}

// Coordinator owns the recording worker.
type Coordinator struct {
	fs      ports.FileSystem
	clock   ports.Clock
	logger  ports.Logger
	manager *session.Manager
	effects *effect.Processor

	mu         sync.Mutex
	state      State
	config     pipeline.RecordConfig
	generation uint64
	closed     bool
	inflight   sync.WaitGroup

	requests chan func()
	quit     chan struct{}
	done     chan struct{}
	closeErr error

	// owned by the worker goroutine
	seg *segment
}

// segment is one start/stop cycle.
type segment struct {
	id         string
	generation uint64
	config     pipeline.RecordConfig
	session    *session.Session
	queue      *frame.Queue
	sched      *scheduler.Scheduler
	ticker     ports.Ticker
	ingest     *ingest.Ingestor
	startedAt  time.Time
	decodeErrs int
}

// New validates opts, creates the coordinator and starts its worker.
func New(opts Options) (*Coordinator, error) {
	if opts.Clock == nil || opts.Logger == nil || opts.FileSystem == nil {
		return nil, errors.New("coordinator: clock, logger and filesystem are required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	effects := effect.NewProcessor()
	if err := effects.Set(opts.Effect); err != nil {
		return nil, err
	}
	buf := opts.RequestBuffer
	if buf <= 0 {
		buf = DefaultRequestBuffer
	}

	c := &Coordinator{
		fs:       opts.FileSystem,
		clock:    opts.Clock,
		logger:   opts.Logger.WithComponent("recorder"),
		manager:  session.NewManager(opts.Candidates, opts.FileSystem, opts.Logger),
		effects:  effects,
		config:   opts.Config,
		requests: make(chan func(), buf),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.run()
	return c, nil
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Config returns the configuration the next start will use.
func (c *Coordinator) Config() pipeline.RecordConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Effect returns the effect in force.
func (c *Coordinator) Effect() ports.EffectKind {
	return c.effects.Current()
}

// Configure validates and stores the frame size and rate for the next start.
// An active segment keeps its configuration.
func (c *Coordinator) Configure(width, height int, fps float64) *Completion[pipeline.RecordConfig] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return failed[pipeline.RecordConfig](pipeline.ErrClosed)
	}
	cfg := c.config
	cfg.Width, cfg.Height, cfg.FPS = width, height, fps
	if err := cfg.Validate(); err != nil {
		return failed[pipeline.RecordConfig](err)
	}
	c.config = cfg
	c.logger.Debug("Configured %dx%d at %.2f fps", width, height, fps)
	return resolved(cfg, nil)
}

// SetEffect validates id and selects the effect applied to subsequent frames.
func (c *Coordinator) SetEffect(id int) *Completion[ports.EffectKind] {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return failed[ports.EffectKind](pipeline.ErrClosed)
	}
	kind, err := c.effects.SetID(id)
	if err != nil {
		return resolved(kind, err)
	}
	c.logger.Debug("Effect set to %s", kind.String())
	return resolved(kind, nil)
}

// Start begins a segment writing to path.
func (c *Coordinator) Start(path string) *Completion[pipeline.StartResult] {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return failed[pipeline.StartResult](pipeline.ErrClosed)
	}
	switch c.state {
	case StateStarting, StateRecording:
		c.mu.Unlock()
		return failed[pipeline.StartResult](pipeline.Errorf(pipeline.KindAlreadyRecording, "cannot start %s", path))
	case StateStopping:
		c.mu.Unlock()
		return failed[pipeline.StartResult](pipeline.Errorf(pipeline.KindTeardownPending, "previous segment is still closing"))
	}
	c.state = StateStarting
	c.generation++
	gen := c.generation
	cfg := c.config
	c.inflight.Add(1)
	c.mu.Unlock()

	comp := newCompletion[pipeline.StartResult]()
	c.submit(func() { c.doStart(gen, path, cfg, comp) })
	return comp
}

// PushFrame submits a raw RGB24 or RGBA frame. pix is copied before
// PushFrame returns.
func (c *Coordinator) PushFrame(pix []byte, width, height int) *Completion[struct{}] {
	gen, err := c.acquirePush()
	if err != nil {
		return failed[struct{}](err)
	}
	raw := ingest.Raw{Pix: append([]byte(nil), pix...), Width: width, Height: height}
	ts := c.clock.Now()
	return c.submitPush(gen, func(ctx context.Context, in *ingest.Ingestor) (*frame.Frame, error) {
		return in.Raw(ctx, raw, ts)
	})
}

// PushEncoded submits a PNG, JPEG, BMP or WebP encoded frame. data is copied
// before PushEncoded returns.
func (c *Coordinator) PushEncoded(data []byte) *Completion[struct{}] {
	gen, err := c.acquirePush()
	if err != nil {
		return failed[struct{}](err)
	}
	buf := append([]byte(nil), data...)
	ts := c.clock.Now()
	return c.submitPush(gen, func(ctx context.Context, in *ingest.Ingestor) (*frame.Frame, error) {
		return in.Encoded(ctx, buf, ts)
	})
}

// Stop drains buffered frames, closes the output and returns to Idle.
//
// When closing the output fails the result is still returned together with
// an error of kind KindTeardown.
func (c *Coordinator) Stop() *Completion[pipeline.SegmentResult] {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return failed[pipeline.SegmentResult](pipeline.ErrClosed)
	}
	switch c.state {
	case StateIdle, StateStarting:
		c.mu.Unlock()
		return failed[pipeline.SegmentResult](pipeline.Errorf(pipeline.KindNotRecording, "nothing to stop"))
	case StateStopping:
		c.mu.Unlock()
		return failed[pipeline.SegmentResult](pipeline.Errorf(pipeline.KindTeardownPending, "stop already in progress"))
	}
	c.state = StateStopping
	c.inflight.Add(1)
	c.mu.Unlock()

	comp := newCompletion[pipeline.SegmentResult]()
	c.submit(func() {
		res, err := c.stopSegment()
		comp.resolve(res, err)
	})
	return comp
}

// Close stops an active segment and terminates the worker. Commands issued
// afterwards fail with ErrClosed. If ctx ends first, Close returns ctx.Err()
// and shutdown continues in the background.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		select {
		case <-c.done:
			return c.closeErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.closed = true
	c.mu.Unlock()

	go func() {
		c.inflight.Wait()
		close(c.quit)
	}()

	select {
	case <-c.done:
		return c.closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) acquirePush() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, pipeline.ErrClosed
	}
	if c.state != StateRecording {
		return 0, pipeline.Errorf(pipeline.KindNotRecording, "recorder is %s", c.state)
	}
	c.inflight.Add(1)
	return c.generation, nil
}

// submit hands a lifecycle command to the worker. The caller has already
// registered with inflight, so the worker is guaranteed to still be running.
// If the buffer is full the hand-off finishes in the background; the state
// set by the caller admits no other lifecycle command until this one runs.
func (c *Coordinator) submit(r func()) {
	select {
	case c.requests <- r:
		c.inflight.Done()
	default:
		go func() {
			c.requests <- r
			c.inflight.Done()
		}()
	}
}

// submitPush queues a frame for the worker, or fails it with ErrOverloaded
// when the request buffer is full.
func (c *Coordinator) submitPush(gen uint64, src frameSource) *Completion[struct{}] {
	defer c.inflight.Done()
	comp := newCompletion[struct{}]()
	select {
	case c.requests <- func() { c.doPush(gen, comp, src) }:
		return comp
	default:
		c.logger.Debug("Request buffer full, rejecting frame")
		return failed[struct{}](pipeline.Errorf(pipeline.KindOverloaded, "%d commands waiting", cap(c.requests)))
	}
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// run is the worker loop.
func (c *Coordinator) run() {
	defer close(c.done)
	for {
		var tick <-chan time.Time
		if c.seg != nil {
			tick = c.seg.ticker.C()
		}
		select {
		case r := <-c.requests:
			r()
		case <-tick:
			if c.seg != nil {
				c.seg.sched.Pump(c.clock.Now())
			}
		case <-c.quit:
			c.shutdown()
			return
		}
	}
}

// shutdown runs requests still buffered, then tears down an active segment.
func (c *Coordinator) shutdown() {
	for drained := false; !drained; {
		select {
		case r := <-c.requests:
			r()
		default:
			drained = true
		}
	}
	if c.seg != nil {
		c.setState(StateStopping)
		if _, err := c.stopSegment(); err != nil {
			c.closeErr = err
		}
	}
	c.logger.Debug("Recorder closed")
}
