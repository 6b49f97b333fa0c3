// Package web serves the analyzer over HTTP with gin.
//
// Routes mirror the desktop actions: analyze an uploaded PDF, classify and
// apply a classification, search similar reports, browse stored reports and
// export a report. Failures use the envelope {"error":{"message","code"}}
// with 4xx for caller-input faults and 5xx for everything else.
package web
