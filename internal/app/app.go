package app

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/device"
	"github.com/dudu/glasscam/internal/log"
	"github.com/dudu/glasscam/internal/pipeline"
)

// ModelLoader loads the pose model for a quality multiplier
type ModelLoader func(ctx context.Context, multiplier float64) (pipeline.PoseEstimator, error)

// View presents frames and state and collects user input
type View interface {
	// Update is called after every state change
	Update(st State)
	// Present shows a processed frame with the timing of the step that produced it
	Present(frame *gocv.Mat, st State, timing pipeline.Timing)
	// Poll returns the next user event or nil. It may block briefly to pump window events.
	Poll() Event
}

// Options tunes the session
type Options struct {
	Viewport       camera.Size
	Mobile         bool
	ProbeTimeout   time.Duration
	ResizeDebounce time.Duration
	// StallTimeout fails the session when the stream delivers no frame for this long; zero disables it
	StallTimeout time.Duration
}

// readRetryDelay paces polling of a stream that returned no frame
const readRetryDelay = 10 * time.Millisecond

// Deps are the collaborators of an App
type Deps struct {
	Lister    device.Lister
	Opener    camera.Opener
	LoadModel ModelLoader
	Renderer  pipeline.OverlayRenderer
	View      View
}

// App runs one camera overlay session
type App struct {
	opts      Options
	lister    device.Lister
	manager   *camera.Manager
	loadModel ModelLoader
	renderer  pipeline.OverlayRenderer
	view      View
	pipeline  *pipeline.Pipeline

	mu    sync.Mutex
	state State
}

// New creates an App
func New(opts Options, deps Deps) *App {
	return &App{
		opts:      opts,
		lister:    deps.Lister,
		manager:   camera.NewManager(deps.Opener),
		loadModel: deps.LoadModel,
		renderer:  deps.Renderer,
		view:      deps.View,
		state:     Initial(opts.Viewport),
	}
}

// State returns the current snapshot
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) dispatch(e Event) State {
	a.mu.Lock()
	prev := a.state
	next := Reduce(prev, e)
	a.state = next
	a.mu.Unlock()

	if !next.equal(prev) {
		if next.Phase != prev.Phase {
			log.Debug(log.Fields{"from": prev.Phase.String(), "to": next.Phase.String()}, "phase changed")
		}
		a.view.Update(next)
	}
	return next
}

func (a *App) fail(err error) error {
	log.Error(log.Fields{"error": err}, "session failed")
	a.dispatch(Failed{Err: err})
	return err
}

// Run executes the session until ctx is cancelled, the user quits, or a fatal error occurs.
// The held stream and the model are released before returning.
func (a *App) Run(ctx context.Context) error {
	defer a.teardown()

	a.dispatch(Mounted{})

	probeCtx, cancel := ctx, context.CancelFunc(func() {})
	if a.opts.ProbeTimeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, a.opts.ProbeTimeout)
	}
	caps, _ := device.Probe(probeCtx, a.lister)
	cancel()
	a.dispatch(DevicesProbed{ShowSwitchCamera: caps.ShowSwitchCamera})

	quality := detector.QualityFor(a.opts.Mobile)
	log.Info(log.Fields{"multiplier": quality, "mobile": a.opts.Mobile}, "loading pose model")
	estimator, err := a.loadModel(ctx, quality)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return a.fail(err)
	}
	a.pipeline = pipeline.New(estimator, a.renderer)
	a.dispatch(ModelLoaded{})

	return a.loop(ctx)
}

func (a *App) loop(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	var (
		stream       camera.Stream
		constraints  camera.Constraints
		acquiredGen  int
		stalledSince time.Time
		pending      *camera.Size
		resizeAt     time.Time
		lastEstimate error
	)

	for {
		if ctx.Err() != nil {
			return nil
		}

		if ev := a.view.Poll(); ev != nil {
			switch ev := ev.(type) {
			case Quit:
				return nil
			case Resized:
				size := ev.Size
				pending = &size
				resizeAt = time.Now().Add(a.opts.ResizeDebounce)
			default:
				a.dispatch(ev)
			}
		}
		if pending != nil && !time.Now().Before(resizeAt) {
			a.dispatch(Resized{Size: *pending})
			pending = nil
		}

		st := a.State()
		if st.StreamGen != acquiredGen {
			constraints = camera.ConstraintsFor(st.Facing, st.Viewport, a.opts.Mobile)
			s, err := a.manager.Acquire(ctx, constraints)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return a.fail(err)
			}
			stream = s
			acquiredGen = st.StreamGen
			stalledSince = time.Time{}
			st = a.dispatch(StreamAcquired{ID: s.ID()})
		}

		if !stream.Read(&frame) || frame.Empty() {
			now := time.Now()
			if stalledSince.IsZero() {
				stalledSince = now
			}
			if a.opts.StallTimeout > 0 && now.Sub(stalledSince) >= a.opts.StallTimeout {
				return a.fail(&camera.MediaAcquisitionError{
					Constraints: constraints,
					Err:         errors.Errorf("no frames for %s", a.opts.StallTimeout),
				})
			}
			select {
			case <-ctx.Done():
			case <-time.After(readRetryDelay):
			}
			continue
		}
		stalledSince = time.Time{}

		_, err := a.pipeline.Process(&frame, st.Facing)
		if err != nil {
			var estErr *detector.EstimationError
			if !errors.As(err, &estErr) {
				return a.fail(err)
			}
			if lastEstimate == nil || lastEstimate.Error() != err.Error() {
				log.Warn(log.Fields{"error": err}, "skipping frame")
			}
		}
		lastEstimate = err

		st = a.dispatch(FrameProcessed{})
		a.view.Present(&frame, st, a.pipeline.LastTiming())
	}
}

func (a *App) teardown() {
	a.manager.Release()
	if a.pipeline != nil {
		if err := a.pipeline.Close(); err != nil {
			log.Warn(log.Fields{"error": err}, "pipeline cleanup failed")
		}
		a.pipeline = nil
	}
}
