// Package handler provides the types shared by every stage of the request
// pipeline: the request Context contract, the Response renderer, handlers,
// middleware and the pipeline builder.
//
// A request is processed in two phases. First the middleware chain is walked
// by calling each HandlerFunc, which returns a Response. Then the outermost
// Response is executed against the response writer. Middleware that needs to
// act after the downstream stages finished wraps the Response it got from next:
//
//	func Stamp[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				start := time.Now()
//				resp := next(ctx)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					err := resp(w, r)
//					w.Header().Set("X-Elapsed", time.Since(start).String())
//					return err
//				}
//			}
//		}
//	}
//
// Failures are returned as errors from a Response and propagate outwards until
// the error boundary stage renders them.
//
// Chain composes a middleware slice around an endpoint, first middleware
// outermost:
//
//	h := handler.Chain([]handler.Middleware[*router.Context]{a, b}, endpoint)
//	// request flows a -> b -> endpoint
package handler
