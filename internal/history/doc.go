// Package history fetches entity history for graph cards and state
// timelines.
//
// A Manager reads numeric samples and raw state changes from a Source
// (InfluxDB in production), downsamples numeric series to at most
// maxPoints, folds state changes into contiguous segments and caches both
// in a KV store. The cache is either in-process (MemoryKV) or Redis
// (RedisKV) and is emptied explicitly with ClearCache.
package history
