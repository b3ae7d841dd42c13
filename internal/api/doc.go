// Package api exposes the application's operations as plain functions
// with request/response types. The CLI and the HTTP server both build
// on these instead of reimplementing the underlying wiring.
package api
