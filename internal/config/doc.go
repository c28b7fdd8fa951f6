// Package config loads, parses and validates application settings from
// environment variables (prefixed TASKDESK_) and an optional config.yaml,
// keeping configuration details out of business logic.
package config
