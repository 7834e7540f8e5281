package video

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pagegen/pagegen/internal/adapter"
	"github.com/pagegen/pagegen/internal/provider"
)

const (
	// DefaultPollInterval is the wait between status fetches.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxPolls bounds the poll loop; past it the job is reported
	// as timed out, not failed.
	DefaultMaxPolls = 60
)

// API is the slice of the transport the orchestrator needs.
type API interface {
	CreateVideo(ctx context.Context, req adapter.VideoRequest, rc provider.ResolvedConfig) (adapter.RawResponse, error)
	PollVideo(ctx context.Context, handle adapter.TaskHandle, rc provider.ResolvedConfig) (adapter.RawResponse, error)
}

// Prompter turns page content into a video prompt, usually via a chat
// model.
type Prompter interface {
	VideoPrompt(ctx context.Context, pageContent string) (string, error)
}

// Clock abstracts timer waits so the poll loop is testable without real
// delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Request describes one generation run. If Prompt is empty the
// orchestrator derives one from PageContent first.
type Request struct {
	PageContent string
	Prompt      string
	Config      Config
	Resolved    provider.ResolvedConfig
}

// Orchestrator drives a video generation run end to end: prompt
// derivation, task submission, then the bounded poll loop. At most one
// run is active; starting a new one cancels the previous poller.
type Orchestrator struct {
	api      API
	prompter Prompter
	clock    Clock
	interval time.Duration
	maxPolls int
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock, used by tests.
func WithClock(c Clock) Option { return func(o *Orchestrator) { o.clock = c } }

// WithPollPolicy overrides the poll interval and attempt bound.
func WithPollPolicy(interval time.Duration, maxPolls int) Option {
	return func(o *Orchestrator) {
		o.interval = interval
		o.maxPolls = maxPolls
	}
}

// WithPrompter sets the chat-backed prompt generator.
func WithPrompter(p Prompter) Option { return func(o *Orchestrator) { o.prompter = p } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// NewOrchestrator builds an orchestrator around the given transport.
func NewOrchestrator(api API, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:      api,
		clock:    realClock{},
		interval: DefaultPollInterval,
		maxPolls: DefaultMaxPolls,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start runs a generation asynchronously, cancelling any run already in
// flight so exactly one poller is ever active. Updates are delivered on
// the run's goroutine.
func (o *Orchestrator) Start(ctx context.Context, req Request, onUpdate func(Result)) {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()

	go func() {
		defer cancel()
		res, err := o.Run(runCtx, req, onUpdate)
		if err != nil && onUpdate != nil {
			onUpdate(res)
		}
	}()
}

// Stop cancels the active run, if any.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Run executes a generation synchronously. The returned Result is always
// meaningful, even alongside a non-nil error; in particular the derived
// prompt survives failures so the caller can retry with it.
func (o *Orchestrator) Run(ctx context.Context, req Request, onUpdate func(Result)) (Result, error) {
	emit := func(r Result) {
		if onUpdate != nil {
			onUpdate(r)
		}
	}

	result := Result{Type: TypePending, Status: StatusPending}

	prompt := req.Prompt
	if prompt == "" {
		if o.prompter == nil {
			err := &adapter.Error{Kind: adapter.KindConfiguration, Message: "no prompt and no prompt generator configured"}
			result.advance(Result{Type: TypeText, Status: StatusFailed, Message: err.Message})
			return result, err
		}
		emit(result)
		p, err := o.prompter.VideoPrompt(ctx, req.PageContent)
		if err != nil {
			result.advance(Result{Type: TypeText, Status: StatusFailed, Message: err.Error()})
			return result, err
		}
		prompt = p
	}
	result.Prompt = prompt

	o.logger.Info("submitting video task",
		slog.String("model", req.Config.Model),
		slog.Int("duration", req.Config.DurationSeconds))

	raw, err := o.api.CreateVideo(ctx, adapter.VideoRequest{
		Model:             req.Config.Model,
		Prompt:            prompt,
		DurationSeconds:   req.Config.DurationSeconds,
		Width:             req.Config.Width,
		Height:            req.Config.Height,
		ReferenceImageURL: req.Config.ReferenceImageURL,
		EnableSound:       req.Config.EnableSound,
	}, req.Resolved)
	if err != nil {
		result.advance(Result{Type: TypePending, Status: StatusFailed, Message: err.Error(), Prompt: prompt})
		return result, err
	}

	outcome := adapter.InterpretVideoCreate(raw)
	if outcome.Err != nil {
		// There is no second submission attempt: retryability only
		// matters inside the poll loop.
		result.advance(Result{Type: TypePending, Status: StatusFailed, Message: outcome.Err.Message, Prompt: prompt})
		emit(result)
		return result, outcome.Err
	}
	if next, err := o.apply(&result, outcome); next {
		emit(result)
		return result, err
	}
	if outcome.Handle == nil {
		// Interpreted as neither terminal nor a task: treat the body as
		// a prose answer.
		result.advance(Result{Type: TypeText, Status: StatusCompleted, Content: outcome.Text, Prompt: prompt})
		emit(result)
		return result, nil
	}

	handle := *outcome.Handle
	result.advance(Result{
		Type:     TypePending,
		Status:   normalizeStatus(outcome.Status),
		TaskID:   handle.ID,
		Progress: outcome.Progress,
		Prompt:   prompt,
	})
	emit(result)

	return o.poll(ctx, handle, req.Resolved, result, emit)
}

// poll fetches status until a terminal outcome or the attempt bound.
// Transient errors do not stop the loop; only a reported failure does.
func (o *Orchestrator) poll(ctx context.Context, handle adapter.TaskHandle, rc provider.ResolvedConfig, result Result, emit func(Result)) (Result, error) {
	for attempt := 1; attempt <= o.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			result.advance(Result{Type: TypePending, Status: StatusCancelled, Message: "cancelled"})
			emit(result)
			return result, ctx.Err()
		case <-o.clock.After(o.interval):
		}

		raw, err := o.api.PollVideo(ctx, handle, rc)
		if err != nil {
			if adapter.KindOf(err) == adapter.KindNetwork {
				o.logger.Warn("poll attempt failed", slog.Int("attempt", attempt), slog.Any("error", err))
				continue
			}
			result.advance(Result{Type: TypePending, Status: StatusFailed, Message: err.Error()})
			emit(result)
			return result, err
		}

		outcome := adapter.InterpretVideoPoll(raw)
		if outcome.Err != nil && outcome.Err.Retryable() {
			o.logger.Warn("transient poll error", slog.Int("attempt", attempt), slog.String("kind", string(outcome.Err.Kind)))
			continue
		}
		if done, err := o.apply(&result, outcome); done {
			emit(result)
			return result, err
		}

		result.advance(Result{
			Type:     TypePending,
			Status:   normalizeStatus(outcome.Status),
			TaskID:   handle.ID,
			Progress: outcome.Progress,
		})
		emit(result)
	}

	err := &adapter.Error{
		Kind:    adapter.KindVideoTimeout,
		Message: "video generation did not finish in time",
		Hint:    "the task may still complete on the provider side",
	}
	result.advance(Result{Type: TypePending, Status: StatusFailed, TaskID: handle.ID, Message: err.Message})
	emit(result)
	return result, err
}

// apply folds a terminal outcome into the result. It reports whether the
// outcome ended the run.
func (o *Orchestrator) apply(result *Result, outcome adapter.VideoOutcome) (bool, error) {
	switch {
	case outcome.Err != nil && !outcome.Err.Retryable():
		result.advance(Result{Type: TypePending, Status: StatusFailed, Message: outcome.Err.Message})
		return true, outcome.Err
	case outcome.VideoURL != "":
		result.advance(Result{Type: TypeVideo, Status: StatusCompleted, VideoURL: outcome.VideoURL, Progress: 100})
		return true, nil
	}
	return false, nil
}
