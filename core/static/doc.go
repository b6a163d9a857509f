// Package static serves files from a directory as the router's fallback
// handler.
//
// Dir maps the request path onto a root directory and serves the file with
// http.ServeContent, which sets the content type from the extension (or by
// sniffing), answers conditional requests and supports ranges. Directories
// are served only through their index.html; listings are never produced.
//
// Failures are returned as errors rather than written, so the error boundary
// renders them like any other fault:
//
//   - a missing file, a directory without index.html, or a path outside
//     the root yields response.ErrNotFound;
//   - a method other than GET or HEAD yields response.ErrMethodNotAllowed
//     with an "Allow: GET, HEAD" header;
//   - any other filesystem error yields response.ResourceUnavailable.
//
// Usage:
//
//	r := router.New[*router.Context]()
//	r.Get("/", page)
//	r.Fallback(static.Dir[*router.Context]("./public", static.WithLogger(log)))
package static
