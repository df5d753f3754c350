// Package workflow drives one browser session through login, profile
// navigation, headline edit and save. Every fallible stage retries locally
// within fixed bounds and then fails with a typed *Error; the session is
// released exactly once on every exit path.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-headline-sync/internal/config"
)

// Outcome is what a single interaction produced.
type Outcome struct {
	Success  bool
	Observed string
	URL      string
	Strategy string
	Err      error
}

// Result summarises a run for history and reporting.
type Result struct {
	// Reached is the last state entered before teardown.
	Reached  State
	Verified bool
	Observed string
	URL      string
	Strategy string
	Started  time.Time
	Finished time.Time
}

func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// FailureHook runs before teardown when a run ends in error. The session is still open.
type FailureHook func(s Session, stage State, err error)

type Workflow struct {
	cfg         *config.Config
	creds       CredentialSource
	launcher    Launcher
	obs         Observer
	chain       []ClickStrategy
	onFailure   FailureHook
	interactive bool
}

type Option func(*Workflow)

func WithObserver(o Observer) Option {
	return func(w *Workflow) { w.obs = o }
}

func WithClickChain(chain []ClickStrategy) Option {
	return func(w *Workflow) { w.chain = chain }
}

func WithFailureHook(fn FailureHook) Option {
	return func(w *Workflow) { w.onFailure = fn }
}

// WithInteractive enables waiting for a human to solve a challenge.
func WithInteractive(on bool) Option {
	return func(w *Workflow) { w.interactive = on }
}

func New(cfg *config.Config, creds CredentialSource, launcher Launcher, opts ...Option) *Workflow {
	w := &Workflow{
		cfg:         cfg,
		creds:       creds,
		launcher:    launcher,
		obs:         NopObserver{},
		chain:       DefaultClickChain(),
		interactive: cfg.Interactive == config.InteractiveAlways,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runner holds the state of a single Run.
type runner struct {
	*Workflow
	s     Session
	creds config.Credentials
	state State
	res   *Result
}

// Run executes the whole pipeline once. Config and credential problems are
// reported before any browser is launched.
func (w *Workflow) Run(ctx context.Context) (res Result, err error) {
	res.Started = time.Now()
	res.Reached = StateInit

	if verr := w.cfg.Validate(); verr != nil {
		res.Finished = time.Now()
		return res, newError(KindConfig, StateInit, verr)
	}
	creds, cerr := w.creds.Credentials()
	if cerr != nil {
		res.Finished = time.Now()
		return res, newError(KindConfig, StateInit, cerr)
	}

	session, lerr := w.launcher.Launch(ctx)
	if lerr != nil {
		res.Finished = time.Now()
		return res, newError(KindSessionInit, StateInit, lerr)
	}

	r := &runner{Workflow: w, s: session, creds: creds, state: StateInit, res: &res}
	defer func() {
		res.Reached = r.state
		if err != nil && w.onFailure != nil {
			w.onFailure(session, r.state, err)
		}
		r.teardown()
		res.Finished = time.Now()
	}()

	stages := []func(context.Context) error{
		r.authenticate,
		r.navigate,
		r.activateEdit,
		r.replaceText,
		r.save,
	}
	for _, stage := range stages {
		if err := stage(ctx); err != nil {
			return res, err
		}
	}
	res.URL = session.CurrentURL()
	return res, nil
}

// teardown closes the session gracefully, then by force. Failures are only observed.
func (r *runner) teardown() {
	if err := r.s.Close(); err != nil {
		r.obs.Warn(r.state, "graceful close failed, forcing", err)
		if kerr := r.s.Kill(); kerr != nil {
			r.obs.Warn(r.state, "force close failed", kerr)
		}
	}
	r.transition(StateClosed)
}

func (r *runner) transition(to State) {
	from := r.state
	r.state = to
	r.obs.Transition(from, to)
}

// fail wraps a stage error. A cause that is the context ending is reported as
// KindCancelled, not as the stage's own kind.
func (r *runner) fail(kind Kind, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCancelled
	}
	return newError(kind, r.state, err)
}

// pause sleeps for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs fn up to max times, pausing between failed attempts, and returns the last error.
func (r *runner) retry(ctx context.Context, step string, max int, gap time.Duration, fn func(attempt int) error) error {
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		err = fn(attempt)
		r.obs.Attempt(r.state, step, attempt, max, err)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt < max {
			if perr := pause(ctx, gap); perr != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", step, max, err)
}

var errPollTimeout = errors.New("condition not met before timeout")

// poll evaluates cond every interval until it holds or timeout passes.
func poll(ctx context.Context, timeout, interval time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errPollTimeout
		}
		if err := pause(ctx, min(interval, remaining)); err != nil {
			return err
		}
	}
}
