// Package response provides handler.Response constructors for the gateway's
// web-page surface: redirects, plain-text bodies, and error propagation.
//
// Authorization outcomes on web pages are expressed as redirects rather than
// bare status payloads, so the redirect family is the primary API here.
// Error passes a Go error through to the pipeline's error handler, and the
// predefined HTTPError values give those errors stable status codes and
// machine-readable codes.
package response
