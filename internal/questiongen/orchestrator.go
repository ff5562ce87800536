package questiongen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mcqgen/internal/llm"
)

// State is a fallback orchestrator state.
type State string

const (
	StateAttempting State = "attempting"
	StateRetrying   State = "retrying"
	StateAdvancing  State = "advancing"
	StateSkipped    State = "skipped"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Transition is reported to an Observer on every state change.
type Transition struct {
	State State
	Index int // Chain position; -1 for StateExhausted.
	Link  Link
	Retry int // Retries already made on this link.
	Wait  time.Duration
	Err   error
}

// Observer receives orchestrator transitions. It is called synchronously.
type Observer func(Transition)

// Decoder turns a provider response into a value, or reports why the
// response is unusable. Decoder errors are terminal for the attempt.
type Decoder[T any] func(resp *llm.Response, link Link) (T, error)

// Outcome is a successful orchestrator run.
type Outcome[T any] struct {
	Value T
	Link  Link
	Model string // Model reported by the provider; may differ from Link.Model.
}

// Orchestrator drives a provider chain with bounded retries. It holds no
// per-call state and is safe for concurrent use.
type Orchestrator struct {
	registry *llm.Registry
	policy   *llm.RetryPolicy
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithObserver installs a transition hook.
func WithObserver(obs Observer) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an Orchestrator. timeout bounds each provider call;
// zero disables the per-call bound.
func NewOrchestrator(registry *llm.Registry, policy *llm.RetryPolicy, timeout time.Duration, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		policy:   policy,
		timeout:  timeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run walks chain in order until one link yields a decoded value. Transient
// provider errors are retried on the same link with backoff; everything else
// moves to the next link. An auth failure skips later links of the same
// provider. When the chain is exhausted Run returns a *GenerationError. If
// ctx ends, Run returns the context error and nothing else.
func Run[T any](ctx context.Context, o *Orchestrator, chain Chain, req llm.Request, decode Decoder[T]) (*Outcome[T], error) {
	var attempts []AttemptError
	authFailed := make(map[string]bool)

	for i, link := range chain {
		if authFailed[link.Provider] {
			o.emit(ctx, Transition{State: StateSkipped, Index: i, Link: link})
			continue
		}

		provider, ok := o.registry.Get(link.Provider)
		if !ok {
			err := fmt.Errorf("provider %q is not registered", link.Provider)
			attempts = append(attempts, AttemptError{Provider: link.Provider, Model: link.Model, Err: err})
			o.emit(ctx, Transition{State: StateAdvancing, Index: i, Link: link, Err: err})
			continue
		}

		for retry := 0; ; retry++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.emit(ctx, Transition{State: StateAttempting, Index: i, Link: link, Retry: retry})

			value, model, err := attempt(ctx, o, provider, link, req, decode)
			if err == nil {
				o.emit(ctx, Transition{State: StateSuccess, Index: i, Link: link, Retry: retry})
				return &Outcome[T]{Value: value, Link: link, Model: model}, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			if o.policy.ShouldRetry(err, retry) {
				wait := o.policy.Backoff(retry, err)
				o.emit(ctx, Transition{State: StateRetrying, Index: i, Link: link, Retry: retry, Wait: wait, Err: err})
				if err := llm.Sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}

			var authErr *llm.ErrAuth
			if errors.As(err, &authErr) {
				authFailed[link.Provider] = true
			}
			attempts = append(attempts, AttemptError{
				Provider: link.Provider,
				Model:    link.Model,
				Calls:    retry + 1,
				Err:      err,
			})
			o.emit(ctx, Transition{State: StateAdvancing, Index: i, Link: link, Retry: retry, Err: err})
			break
		}
	}

	o.emit(ctx, Transition{State: StateExhausted, Index: -1})
	return nil, &GenerationError{Attempts: attempts}
}

// attempt makes one provider call under the per-call timeout and decodes the
// response. A per-call timeout is reported as a transient server error.
func attempt[T any](ctx context.Context, o *Orchestrator, p llm.Provider, link Link, req llm.Request, decode Decoder[T]) (T, string, error) {
	var zero T

	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	req.Model = link.Model
	resp, err := p.Generate(callCtx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !IsTransient(err) {
			err = &llm.ErrServer{Err: fmt.Errorf("call timed out after %s: %w", o.timeout, err)}
		}
		return zero, "", err
	}

	value, err := decode(resp, link)
	if err != nil {
		return zero, "", err
	}
	return value, resp.Model, nil
}

func (o *Orchestrator) emit(ctx context.Context, t Transition) {
	fields := []zap.Field{
		zap.String("call_id", llm.CallIDFrom(ctx)),
		zap.String("state", string(t.State)),
		zap.Int("index", t.Index),
		zap.String("link", t.Link.String()),
		zap.Int("attempt", t.Retry+1),
	}
	if t.Wait > 0 {
		fields = append(fields, zap.Duration("wait", t.Wait))
	}
	if t.Err != nil {
		fields = append(fields, zap.Error(t.Err))
	}
	o.logger.Debug("orchestrator transition", fields...)

	if o.observer != nil {
		o.observer(t)
	}
}
