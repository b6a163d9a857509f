// Package timing records named spans for a single request and serializes
// them as a Server-Timing header.
//
// A Recorder is created per request (the ServerTiming middleware does this)
// and travels in the request context:
//
//	rec := timing.FromContext(ctx)
//	err := rec.Span("markdown", func() error {
//		html, err = markdown.Load(path)
//		return err
//	})
//
// Durations are reported in whole milliseconds, truncated, so the sum of the
// spans of a request never exceeds the total measured around them.
//
// Misuse is reported, never fatal: ending a span that was not started returns
// ErrUndefinedSpan, starting an open span returns ErrSpanOpen, and Header
// returns ErrUnclosedSpan alongside the completed entries when spans are
// still open.
package timing
