package backend

import (
	"context"

	"github.com/brizzai/backend-client/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Executor builds, sends and classifies requests. It holds no per-call state
// and may be shared by any number of concurrent calls.
type Executor struct {
	base       *BaseConfiguration
	builder    *RequestBuilder
	transport  Transport
	dispatcher Dispatcher
}

type ExecutorParams struct {
	fx.In

	Base       *BaseConfiguration
	Builder    *RequestBuilder `optional:"true"`
	Transport  Transport
	Dispatcher Dispatcher
}

// NewExecutor creates a new Executor. A nil Builder is derived from Base and a
// nil Dispatcher delivers callbacks inline.
func NewExecutor(params ExecutorParams) *Executor {
	builder := params.Builder
	if builder == nil {
		builder = NewRequestBuilder(params.Base)
	}
	dispatcher := params.Dispatcher
	if dispatcher == nil {
		dispatcher = Inline
	}
	return &Executor{
		base:       params.Base,
		builder:    builder,
		transport:  params.Transport,
		dispatcher: dispatcher,
	}
}

// Execute builds the request and submits it in the background. It returns
// immediately; onComplete is called exactly once, on the executor's
// Dispatcher, with either the body decoded as T or a classified *Error.
// onComplete never runs before Execute returns, even when the request cannot
// be built.
func Execute[T any](ctx context.Context, e *Executor, path string, method Method, params Params, onComplete func(Outcome[T])) {
	execute(ctx, e, e.dispatcher, path, method, params, onComplete)
}

// Go is Execute with the outcome delivered on a channel. The channel
// receives exactly one value and is then closed.
func Go[T any](ctx context.Context, e *Executor, path string, method Method, params Params) <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	execute(ctx, e, Inline, path, method, params, func(o Outcome[T]) {
		ch <- o
		close(ch)
	})
	return ch
}

// Do is Execute for callers that want to block for the result.
func Do[T any](ctx context.Context, e *Executor, path string, method Method, params Params) (T, error) {
	return (<-Go[T](ctx, e, path, method, params)).Get()
}

func execute[T any](ctx context.Context, e *Executor, dispatcher Dispatcher, path string, method Method, params Params, onComplete func(Outcome[T])) {
	complete := func(o Outcome[T]) {
		dispatcher.Dispatch(func() { onComplete(o) })
	}

	req, ok := e.builder.Build(path, method, params)
	if !ok {
		logger.Debug("could not init request",
			zap.String("path", path),
			zap.String("method", string(method)))
		go complete(Failure[T](newError(CouldNotInitRequest, nil)))
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	logger.Debug("submitting request", zap.String("curl", req.CurlString()))

	go func() {
		resp, err := e.transport.RoundTrip(ctx, req)
		outcome := classify[T](e.base.Decoder(), resp, err)
		logOutcome(req, resp, outcome.Err)
		complete(outcome)
	}()
}

// classify maps one transport result to exactly one outcome.
func classify[T any](decoder Decoder, resp *RawResponse, err error) Outcome[T] {
	if err != nil {
		return Failure[T](newError(DataTaskError, err))
	}
	if resp == nil || !resp.IsHTTP {
		return Failure[T](newError(NotHTTPResponse, nil))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failure[T](newHTTPError(resp.StatusCode, resp.Body))
	}
	if len(resp.Body) == 0 {
		return Failure[T](newError(EmptyResponse, nil))
	}

	var value T
	if err := decoder.Decode(resp.Body, &value); err != nil {
		return Failure[T](newError(CouldNotParseResponseData, err))
	}
	return Success(value)
}

func logOutcome(req *OutgoingRequest, resp *RawResponse, err *Error) {
	fields := []zap.Field{
		zap.String("method", string(req.method)),
		zap.String("url", req.url.String()),
	}
	if resp != nil {
		fields = append(fields, zap.Int("status", resp.StatusCode))
	}
	if err == nil {
		logger.Debug("request completed", fields...)
		return
	}
	fields = append(fields, zap.Stringer("kind", err.Kind), zap.Error(err))
	if err.Kind == DataTaskError {
		logger.Error("failed to execute request", fields...)
		return
	}
	logger.Debug("request failed", fields...)
}
