// Package cache defines the key/value contract behind the controller's
// id cache and expression program caches, plus an in-memory
// implementation.
//
// A Store only maps keys to values. Invalidation policy (when to Clear,
// which writes are stale) belongs to the caller: the controller clears its
// id cache whenever an option source is replaced and refuses writes from
// resolutions started before the clear.
package cache
