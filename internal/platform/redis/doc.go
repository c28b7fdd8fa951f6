// Package redis keeps login sessions in Redis. Each session is one key whose
// TTL matches the session lifetime, so expiry needs no sweeper.
package redis
