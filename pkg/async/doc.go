// Package async runs functions in goroutines and hands back typed futures.
//
// The page route uses it to load markdown and remote data side by side:
//
//	md := async.Async(ctx, path, loadMarkdown)
//	remote := async.Async(ctx, url, fetchRemote)
//
//	html, err := md.Await()
//	value, err := remote.Await()
//
// Await blocks until the function returns. AwaitWithTimeout gives up after
// the duration with ErrTimeout, leaving the goroutine running. IsComplete
// polls without blocking.
//
// WaitAll awaits every future and returns the results in argument order
// together with the first error in that order. WaitAny returns the index and
// result of whichever future finishes first; it fails with ErrNoFutures when
// called without arguments.
//
// A panic inside the function never escapes its goroutine: the future
// completes with an error wrapping ErrPanic that carries the panic value and
// stack. A context that is already done when the goroutine starts completes
// the future with ctx.Err() and the function is not called.
package async
