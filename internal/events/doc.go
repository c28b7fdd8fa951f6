// Package events publishes task mutations to in-process handlers such as
// the audit log and the Prometheus counters. Services emit events after a
// change is stored; handlers never influence the outcome of a request.
package events
