// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the browser API.
//   - rayid: a unique request id (RayID) for every incoming request,
//     stored on the context and echoed in the response headers for tracing.
//
// Both are registered globally by the serve command; rayid first so every
// log line of a request carries its id.
package middleware
