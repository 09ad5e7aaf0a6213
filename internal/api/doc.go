// Package api handles incoming HTTP requests, request validation and response
// formatting. It is a thin adapter between the browser client and the
// services in internal/service; every rule of the coin economy lives there.
package api
