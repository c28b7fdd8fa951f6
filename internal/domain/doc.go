// Package domain contains the core business entities of the task tracker:
// users with their designation and department, tasks with their two-state
// status, and the validation rules shared by every layer above it.
package domain
