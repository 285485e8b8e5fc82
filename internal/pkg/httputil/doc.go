// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers use these helpers instead of writing raw http.ResponseWriter
// calls so that JSON formatting, error envelopes and logging stay uniform
// across endpoints. 5xx responses never carry internal error text.
package httputil
