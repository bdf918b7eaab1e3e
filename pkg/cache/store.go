package cache

// Store is a concurrency-safe key/value map.
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Clear()
	Len() int
}
