// Package service holds the task tracker's application logic: who may see,
// create and change which tasks. Handlers call it with the session user;
// it talks to the stores and emits task events.
package service
