// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between browser form posts
// (or equivalent JSON bodies) and the auth and task services, answering with
// JSON view models and a Location header that mirrors the page flow.
package api
