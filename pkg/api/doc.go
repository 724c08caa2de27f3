// Package api serves stored layouts over HTTP.
//
// Routes:
//
//	POST /layout/save-layout   store an exported layout, then refresh the display
//	GET  /layout/get-layout    the latest layout
//	GET  /layout/list-layout   all stored layouts, newest first
//	GET  /layout/{name}        a layout by filename or ID
//	GET  /healthz              liveness
//
// Every response is JSON with a "success" flag; failures carry a "message".
package api
