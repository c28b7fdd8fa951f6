// Package auth registers users and manages login sessions. A session lives
// in a store.SessionStore; the client holds an HS256-signed token whose
// subject is the session id.
package auth
