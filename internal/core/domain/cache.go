package domain

// CacheStats summarises the resource cache.
type CacheStats struct {
	Entries int64
	Bytes   int64
}
