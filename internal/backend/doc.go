// Package backend is a small typed HTTP client for a JSON backend.
//
// A RequestBuilder resolves relative paths against the configured base URL
// and serializes an untyped parameter map as the JSON body. Execute submits
// the request over a Transport, classifies the outcome into one of the
// ErrorKind values or decodes the body into the caller's type, and delivers
// exactly one Outcome through the executor's Dispatcher.
//
//	exec := backend.NewExecutor(backend.ExecutorParams{...})
//	backend.Execute(ctx, exec, "users/42", backend.MethodGet, nil, func(o backend.Outcome[User]) {
//		user, err := o.Get()
//		...
//	})
package backend
