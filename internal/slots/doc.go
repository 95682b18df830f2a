// Package slots persists the session controller's token slot pair
// between evaluations, keyed by an opaque session ID.
//
// Three backends share the Store interface: MemoryStore for tests and
// single-instance runs, BadgerStore for an embedded database that
// survives restarts, and RedisStore for multi-instance deployments.
// All three treat a missing or unreadable entry as the logged-out
// pair, so storage trouble can only ever log a user out.
package slots
