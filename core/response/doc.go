// Package response provides HTTP response renderers and the fault model shared
// by the request pipeline.
//
// Renderers return a handler.Response that writes headers, status and body:
//
//	return response.HTML("<p>hello</p>")
//	return response.Templ(view.Page(data))
//	return response.WebSocket(serveConn, response.WithWSAllowAnyOrigin())
//
// # Faults
//
// HTTPError is a tagged failure value: Kind selects the category (declared,
// resource-unavailable, upstream-unavailable, runtime), Status the HTTP status,
// and Expose whether Message may be shown to the client. Handlers return faults
// through Error and never render them themselves:
//
//	html, err := markdown.Load(path)
//	if err != nil {
//		return response.Error(response.ResourceUnavailable(err))
//	}
//
// Classify turns any error into an HTTPError. Errors that are not HTTPError
// values and carry no status become KindRuntime faults with status 500.
//
// ErrorPage renders the minimal error document:
//
//	<!DOCTYPE html>
//	<html>
//	  <body>
//	    <h1>404 - Not Found</h1>
//	  </body>
//	</html>
//
// Non-exposable faults only ever show the standard reason phrase.
package response
