// Package response builds handler.Response values for the common cases:
// plain text, HTML, JSON, templ components, redirects and errors.
//
//	func dashboard(ctx *handler.Context) handler.Response {
//		return response.Templ(views.Dashboard(stats))
//	}
//
// Redirects are htmx-aware. When the request carries HX-Request: true the
// response is a 200 with an HX-Redirect header so that htmx performs a full
// navigation instead of swapping the redirect target into the page.
//
// HTTPError gives errors a status and a machine-readable code. ToHTTPError
// maps arbitrary errors onto it, honouring any StatusCode() int method.
package response
