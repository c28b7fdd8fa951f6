// Package store defines the persistence interfaces for users, tasks and
// sessions, along with the errors every implementation reports. Concrete
// implementations live under internal/platform.
package store
