// Package service orchestrates game operations between transports and the
// session store.
//
// The service package implements the registry: it creates games under
// opaque IDs, resolves caller tokens to roles, invokes engine transitions,
// and persists the result. Each operation is exactly one
// load-mutate-save cycle against the store; the service keeps no game
// state between requests, which is what lets any process serve any game.
//
// When a conditional save loses to a concurrent writer the cycle is
// replayed against fresh state a bounded number of times, revalidating the
// requested transition each attempt, before surfacing the conflict.
//
// Domain errors from the engine (out of turn, cell occupied, ...) and
// store errors (not found, corrupt, unavailable) pass through typed so
// transports can map them to their own status codes.
package service
